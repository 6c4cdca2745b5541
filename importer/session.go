package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vihaanharrison/portfolio-backend/models"
	"github.com/vihaanharrison/portfolio-backend/services"
)

// Step identifies where a session is in the import flow.
type Step string

const (
	StepInput    Step = "input"
	StepReview   Step = "review"
	StepDetails  Step = "details"
	StepComplete Step = "complete"
)

// Domain errors
var (
	ErrEmptyContent = errors.New("content is required")
	ErrWrongStep    = errors.New("operation not valid in current step")
	ErrNoEntries    = errors.New("at least one entry is required")
	ErrUnknownEntry = errors.New("unknown entry")
	ErrBadCategory  = errors.New("category is not one of the canonical values")
)

// Entry is an extracted project inside a session. The ID is assigned at
// extraction time and stays stable for the entry's whole lifetime; all
// per-entry state is keyed by it, so removing an entry can never shift
// state onto its neighbours.
type Entry struct {
	ID uuid.UUID `json:"id"`
	services.Entry
}

// entryState carries the reviewer's overrides and attachments for one entry.
type entryState struct {
	startDate  string
	endDate    string // empty means ongoing
	category   string
	isWork     bool
	isFeatured bool
	files      []services.File
}

// Update is a partial edit applied to one entry during review or details.
// Nil fields are left untouched.
type Update struct {
	StartDate  *string
	EndDate    *string
	Category   *string
	IsWork     *bool
	IsFeatured *bool
}

// FileRejection reports why one file in a selection was refused. Other
// files in the same selection are unaffected.
type FileRejection struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Saver persists one fully resolved entry as a project.
type Saver interface {
	SaveProject(ctx context.Context, project *models.Project, tags []string) error
}

// Session is a server-held import wizard: input -> review -> details ->
// complete, with backward transitions details -> review and review ->
// input. Every method serializes on the session mutex since HTTP handlers
// may race.
type Session struct {
	mu sync.Mutex

	id            uuid.UUID
	step          Step
	defaultIsWork bool
	entries       []Entry
	state         map[uuid.UUID]*entryState
	cursor        int
	saved         map[uuid.UUID]bool
	summary       string

	extractor services.Extractor
	uploader  services.Uploader
	saver     Saver
	now       func() time.Time
}

// NewSession builds an empty session in the input step.
func NewSession(extractor services.Extractor, uploader services.Uploader, saver Saver, defaultIsWork bool) *Session {
	return &Session{
		id:            uuid.New(),
		step:          StepInput,
		defaultIsWork: defaultIsWork,
		state:         make(map[uuid.UUID]*entryState),
		saved:         make(map[uuid.UUID]bool),
		extractor:     extractor,
		uploader:      uploader,
		saver:         saver,
		now:           time.Now,
	}
}

func (s *Session) ID() uuid.UUID {
	return s.id
}

func (s *Session) Step() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// Start runs extraction on the pasted content and seeds per-entry state.
// On extraction failure the session stays in the input step.
func (s *Session) Start(ctx context.Context, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step != StepInput {
		return ErrWrongStep
	}
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return ErrEmptyContent
	}

	extracted, err := s.extractor.Extract(ctx, trimmed)
	if err != nil {
		return err
	}

	s.entries = s.entries[:0]
	s.state = make(map[uuid.UUID]*entryState)
	s.saved = make(map[uuid.UUID]bool)
	for _, raw := range extracted {
		entry := Entry{ID: uuid.New(), Entry: raw}
		startDate := raw.StartDate
		if startDate == "" {
			startDate = s.today()
		}
		s.entries = append(s.entries, entry)
		s.state[entry.ID] = &entryState{
			startDate:  startDate,
			endDate:    raw.EndDate,
			category:   models.CanonicalCategory(raw.Category),
			isWork:     s.defaultIsWork,
			isFeatured: false,
		}
	}
	s.step = StepReview
	return nil
}

// Remove drops an entry during review, along with all of its keyed state.
func (s *Session) Remove(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step != StepReview {
		return ErrWrongStep
	}
	idx := s.indexOf(id)
	if idx < 0 {
		return ErrUnknownEntry
	}
	s.entries = append(s.entries[:idx], s.entries[idx+1:]...)
	delete(s.state, id)
	delete(s.saved, id)
	return nil
}

// Update applies a partial edit to one entry's overrides.
func (s *Session) Update(id uuid.UUID, update Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step != StepReview && s.step != StepDetails {
		return ErrWrongStep
	}
	st, ok := s.state[id]
	if !ok {
		return ErrUnknownEntry
	}
	if update.Category != nil {
		if !models.IsValidCategory(*update.Category) {
			return ErrBadCategory
		}
		st.category = *update.Category
	}
	if update.StartDate != nil {
		st.startDate = *update.StartDate
	}
	if update.EndDate != nil {
		st.endDate = *update.EndDate
	}
	if update.IsWork != nil {
		st.isWork = *update.IsWork
	}
	if update.IsFeatured != nil {
		st.isFeatured = *update.IsFeatured
	}
	return nil
}

// BeginDetails moves review -> details, starting at the first entry.
func (s *Session) BeginDetails() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step != StepReview {
		return ErrWrongStep
	}
	if len(s.entries) == 0 {
		return ErrNoEntries
	}
	s.cursor = 0
	s.step = StepDetails
	return nil
}

// Back steps details -> review (attachments are kept) or review -> input.
func (s *Session) Back() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.step {
	case StepDetails:
		s.step = StepReview
	case StepReview:
		s.step = StepInput
	default:
		return ErrWrongStep
	}
	return nil
}

// AttachFiles validates and attaches a selection of files to one entry.
// Each file is judged on its own: rejections are reported per file and do
// not drop valid siblings.
func (s *Session) AttachFiles(id uuid.UUID, files []services.File) ([]FileRejection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step != StepDetails {
		return nil, ErrWrongStep
	}
	st, ok := s.state[id]
	if !ok {
		return nil, ErrUnknownEntry
	}

	var rejections []FileRejection
	for _, file := range files {
		if err := services.ValidateImage(file); err != nil {
			rejections = append(rejections, FileRejection{Name: file.Name, Reason: err.Error()})
			continue
		}
		st.files = append(st.files, file)
	}
	return rejections, nil
}

// RemoveFile detaches a single file from an entry by position.
func (s *Session) RemoveFile(id uuid.UUID, fileIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step != StepDetails {
		return ErrWrongStep
	}
	st, ok := s.state[id]
	if !ok {
		return ErrUnknownEntry
	}
	if fileIndex < 0 || fileIndex >= len(st.files) {
		return fmt.Errorf("file index %d out of range", fileIndex)
	}
	st.files = append(st.files[:fileIndex], st.files[fileIndex+1:]...)
	return nil
}

// Next advances the details cursor. Past the last entry it runs save-all.
// SkipPhoto is the same operation; skipping just means nothing was attached.
func (s *Session) Next(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step != StepDetails {
		return ErrWrongStep
	}
	if s.cursor < len(s.entries)-1 {
		s.cursor++
		return nil
	}
	return s.saveAll(ctx)
}

// SkipPhoto advances without attaching files to the current entry.
func (s *Session) SkipPhoto(ctx context.Context) error {
	return s.Next(ctx)
}

// Save runs save-all immediately, without walking the cursor to the end.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step != StepDetails {
		return ErrWrongStep
	}
	return s.saveAll(ctx)
}

// saveAll persists every retained entry in original order, one at a time.
// A failed create aborts the loop and drops the session back to details;
// entries persisted on an earlier attempt are tracked and never recreated
// on retry. Caller holds the mutex.
func (s *Session) saveAll(ctx context.Context) error {
	s.step = StepComplete

	for _, entry := range s.entries {
		if s.saved[entry.ID] {
			continue
		}
		st := s.state[entry.ID]

		var imageURLs []string
		if len(st.files) > 0 {
			imageURLs = services.UploadAll(ctx, s.uploader, st.files)
		}

		startDate, endDate := resolveDates(entry, st, s.today())

		project := models.Project{
			ID:          uuid.New(),
			Title:       entry.Title,
			Category:    st.category,
			Description: entry.Description,
			Writeup:     entry.Writeup,
			Impact:      entry.Impact,
			StartDate:   startDate,
			EndDate:     endDate,
			IsFeatured:  st.isFeatured,
			IsWork:      st.isWork,
		}
		if err := project.SetImageURLs(imageURLs); err != nil {
			s.step = StepDetails
			return err
		}

		if err := s.saver.SaveProject(ctx, &project, entry.Tags); err != nil {
			log.Error().Err(err).Str("title", entry.Title).Msg("Failed to save imported project")
			s.step = StepDetails
			return fmt.Errorf("failed to save %q: %w", entry.Title, err)
		}
		s.saved[entry.ID] = true
	}

	s.summary = s.buildSummary()
	return nil
}

// buildSummary derives the completion message from the work/foundations
// split. Caller holds the mutex.
func (s *Session) buildSummary() string {
	workCount := 0
	for _, entry := range s.entries {
		if s.state[entry.ID].isWork {
			workCount++
		}
	}
	foundationCount := len(s.entries) - workCount

	switch {
	case workCount > 0 && foundationCount > 0:
		return fmt.Sprintf("Saved %d to Work and %d to Foundations", workCount, foundationCount)
	case workCount > 0:
		return fmt.Sprintf("Saved %d project(s) to Work", workCount)
	default:
		return fmt.Sprintf("Saved %d project(s) to Foundations", foundationCount)
	}
}

// Reset returns the session to a pristine input step.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.step = StepInput
	s.entries = nil
	s.state = make(map[uuid.UUID]*entryState)
	s.saved = make(map[uuid.UUID]bool)
	s.cursor = 0
	s.summary = ""
}

func (s *Session) indexOf(id uuid.UUID) int {
	for i, entry := range s.entries {
		if entry.ID == id {
			return i
		}
	}
	return -1
}

func (s *Session) today() string {
	return s.now().Format("2006-01-02")
}

// resolveDates picks the final dates for persistence: reviewer override,
// then extracted value, then today for start / ongoing for end.
func resolveDates(entry Entry, st *entryState, today string) (string, *string) {
	start := st.startDate
	if start == "" {
		start = entry.StartDate
	}
	if start == "" {
		start = today
	}

	end := st.endDate
	if end == "" {
		end = entry.EndDate
	}
	if end == "" {
		return start, nil
	}
	return start, &end
}

