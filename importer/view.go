package importer

import "github.com/google/uuid"

// EntryView is the read model for one entry, with the reviewer's overrides
// already applied.
type EntryView struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Writeup     string    `json:"writeup,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Impact      string    `json:"impact,omitempty"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date,omitempty"`
	IsWork      bool      `json:"is_work"`
	IsFeatured  bool      `json:"is_featured"`
	FileNames   []string  `json:"file_names,omitempty"`
	Saved       bool      `json:"saved"`
}

// View is a consistent snapshot of the whole session for rendering.
type View struct {
	ID      uuid.UUID   `json:"id"`
	Step    Step        `json:"step"`
	Cursor  int         `json:"cursor"`
	Entries []EntryView `json:"entries"`
	Summary string      `json:"summary,omitempty"`
}

// View snapshots the session under its lock.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := View{
		ID:      s.id,
		Step:    s.step,
		Cursor:  s.cursor,
		Summary: s.summary,
	}
	for _, entry := range s.entries {
		st := s.state[entry.ID]
		ev := EntryView{
			ID:          entry.ID,
			Title:       entry.Title,
			Category:    st.category,
			Description: entry.Description,
			Writeup:     entry.Writeup,
			Tags:        entry.Tags,
			Impact:      entry.Impact,
			StartDate:   st.startDate,
			EndDate:     st.endDate,
			IsWork:      st.isWork,
			IsFeatured:  st.isFeatured,
			Saved:       s.saved[entry.ID],
		}
		for _, f := range st.files {
			ev.FileNames = append(ev.FileNames, f.Name)
		}
		view.Entries = append(view.Entries, ev)
	}
	return view
}
