package todo

import (
	"strings"
	"time"
)

// Todo is a single task item. CompletedAt holds epoch milliseconds and is nil
// whenever Completed is false.
type Todo struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id" bson:"_id"`
	Text        string    `gorm:"not null" json:"text" bson:"text"`
	Completed   bool      `gorm:"not null;default:false" json:"completed" bson:"completed"`
	CompletedAt *int64    `json:"completedAt" bson:"completedAt"`
	OwnerID     *string   `gorm:"size:36;index" json:"owner" bson:"owner,omitempty"`
	CreatedAt   time.Time `json:"-" bson:"createdAt"`
	UpdatedAt   time.Time `json:"-" bson:"updatedAt"`
}

// TableName returns the table name for the Todo entity.
func (Todo) TableName() string {
	return "todos"
}

// Patch is a partial update of a Todo. A nil Text leaves the text unchanged.
// Completed=false, whether sent or omitted, clears completion.
type Patch struct {
	Text      *string `json:"text,omitempty"`
	Completed bool    `json:"completed"`
}

// NormalizeText trims surrounding whitespace from task text.
func NormalizeText(text string) string {
	return strings.TrimSpace(text)
}

// Apply mutates t according to p. now is only consulted when the task moves
// from not completed to completed. It returns true on that transition.
// The caller validates p.Text before calling Apply.
func (t *Todo) Apply(p Patch, now time.Time) bool {
	if p.Text != nil {
		t.Text = NormalizeText(*p.Text)
	}

	if !p.Completed {
		t.Completed = false
		t.CompletedAt = nil
		return false
	}

	if t.Completed && t.CompletedAt != nil {
		return false
	}

	completedAt := now.UnixMilli()
	t.Completed = true
	t.CompletedAt = &completedAt
	return true
}

// Owner returns the owner id or an empty string for unowned tasks.
func (t *Todo) Owner() string {
	if t.OwnerID == nil {
		return ""
	}
	return *t.OwnerID
}
