package models

import (
	"errors"
	"testing"
)

func TestSetPasswordAndCheck(t *testing.T) {
	var account Account

	if err := account.SetPassword("correct horse battery staple"); err != nil {
		t.Fatalf("SetPassword failed: %v", err)
	}
	if account.PasswordHash == "" {
		t.Fatal("password hash was not stored")
	}
	if account.PasswordHash == "correct horse battery staple" {
		t.Fatal("password stored in plaintext")
	}

	if err := account.CheckPassword("correct horse battery staple"); err != nil {
		t.Errorf("correct password rejected: %v", err)
	}
	if err := account.CheckPassword("wrong"); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("wrong password returned %v, want ErrWrongPassword", err)
	}
}

func TestSetPasswordRejectsEmpty(t *testing.T) {
	var account Account
	if err := account.SetPassword(""); !errors.Is(err, ErrEmptyPassword) {
		t.Errorf("empty password returned %v, want ErrEmptyPassword", err)
	}
}

func TestCheckPasswordWithoutHash(t *testing.T) {
	var account Account
	if err := account.CheckPassword("anything"); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("unset hash returned %v, want ErrWrongPassword", err)
	}
}

func TestProjectImageURLRoundTrip(t *testing.T) {
	var project Project

	if got := project.ImageURLList(); got != nil {
		t.Errorf("unset column decoded to %v, want nil", got)
	}

	urls := []string{"https://cdn.test/a.png", "https://cdn.test/b.png"}
	if err := project.SetImageURLs(urls); err != nil {
		t.Fatalf("SetImageURLs failed: %v", err)
	}

	got := project.ImageURLList()
	if len(got) != 2 || got[0] != urls[0] || got[1] != urls[1] {
		t.Errorf("ImageURLList() = %v, want %v", got, urls)
	}
}
