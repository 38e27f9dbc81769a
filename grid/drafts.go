package grid

import (
	"sync"

	"github.com/siherrmann/dataManager/model"
)

// Drafts holds the pending user input of a grid: the new-row draft and at
// most one edit-row draft bound to the id of the row being edited.
type Drafts struct {
	mu        sync.Mutex
	newDraft  model.Row
	editing   bool
	editID    string
	editDraft model.Row
}

func newInitialDraft() model.Row {
	return model.NewRow(model.IDField, "", "field1", "")
}

// NewDrafts creates draft state holding the initial new-row draft and no edit.
func NewDrafts() *Drafts {
	return &Drafts{
		newDraft: newInitialDraft(),
	}
}

// UpdateNewDraft sets one field of the new-row draft. Values are not validated.
func (d *Drafts) UpdateNewDraft(field string, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.newDraft.Set(field, model.StringValue(value))
}

// NewDraft returns a copy of the new-row draft.
func (d *Drafts) NewDraft() model.Row {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.newDraft.Clone()
}

// ResetNewDraft restores the initial new-row draft.
func (d *Drafts) ResetNewDraft() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.newDraft = newInitialDraft()
}

// BeginEdit starts editing row, replacing any edit in progress.
func (d *Drafts) BeginEdit(row model.Row) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.editing = true
	d.editID = row.ID()
	d.editDraft = row.Clone()
}

// UpdateEditDraft sets one field of the edit draft if an edit of exactly id
// is in progress. It reports whether the draft was changed.
func (d *Drafts) UpdateEditDraft(id string, field string, value string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.editing || d.editID != id {
		return false
	}
	d.editDraft.Set(field, model.StringValue(value))
	return true
}

// EditDraft returns the id and a copy of the edit draft. ok is false when no
// edit is in progress.
func (d *Drafts) EditDraft() (id string, row model.Row, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.editing {
		return "", model.Row{}, false
	}
	return d.editID, d.editDraft.Clone(), true
}

// EditingID returns the id of the row being edited and whether an edit is in progress.
func (d *Drafts) EditingID() (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.editID, d.editing
}

// ClearEditDraft ends any edit in progress.
func (d *Drafts) ClearEditDraft() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.editing = false
	d.editID = ""
	d.editDraft = model.Row{}
}
