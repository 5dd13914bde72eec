// Package approvalflow renders approval flows as approver cards.
//
// Steps resolve against a user directory by exact email. A step whose
// approver is not in the directory is skipped, never reported.
package approvalflow

import (
	"fmt"
	"iter"

	"github.com/pesio-ai/be-plt-settings/internal/model"
)

// DefaultPhoto is shown for approvers without a profile photo
const DefaultPhoto = "/assets/profile_photo/userPhoto.png"

// Mode is the view state of the approval flow panel
type Mode string

const (
	ModeView   Mode = "view"
	ModeEdit   Mode = "edit"
	ModeCreate Mode = "create"
)

// Card is the display record for one resolved step
type Card struct {
	Position       int    `json:"position"`
	Name           string `json:"name"`
	RoleName       string `json:"roleName"`
	DepartmentName string `json:"departmentName"`
	Photo          string `json:"photo"`
}

// Title is the card heading, e.g. "Approver 2"
func (c Card) Title() string {
	return fmt.Sprintf("Approver %d", c.Position)
}

// Directory indexes users by email. Emails are matched as-is.
type Directory map[string]model.User

// NewDirectory builds a directory. When two users share an email the first
// one wins.
func NewDirectory(users []model.User) Directory {
	dir := make(Directory, len(users))
	for _, u := range users {
		if _, ok := dir[u.Email]; ok {
			continue
		}
		dir[u.Email] = u
	}
	return dir
}

// Lookup resolves an approver email
func (d Directory) Lookup(email string) (model.User, bool) {
	u, ok := d[email]
	return u, ok
}

// Cards yields one card per resolvable step, in step order. A nil flow
// yields nothing. The sequence can be ranged over any number of times.
func Cards(dir Directory, flow *model.FlowDetails) iter.Seq[Card] {
	return func(yield func(Card) bool) {
		if flow == nil {
			return
		}
		for i, step := range flow.Steps {
			user, ok := dir.Lookup(step.DefaultApproverEmail)
			if !ok {
				continue
			}
			photo := user.Photo
			if photo == "" {
				photo = DefaultPhoto
			}
			card := Card{
				Position:       i + 1,
				Name:           user.Name,
				RoleName:       user.RoleName,
				DepartmentName: user.DepartmentName,
				Photo:          photo,
			}
			if !yield(card) {
				return
			}
		}
	}
}

// Viewer is the read-only approval flow panel
type Viewer struct {
	Label     string
	Directory Directory
	Flow      *model.FlowDetails

	// SetMode receives mode change requests; the viewer never changes its
	// own inputs.
	SetMode    func(Mode)
	CloseModal func()
	Trigger    func()
}

// Cards yields the approver cards of the viewed flow
func (v *Viewer) Cards() iter.Seq[Card] {
	return Cards(v.Directory, v.Flow)
}

// Visible reports whether the panel renders at all
func (v *Viewer) Visible() bool {
	return v.Flow != nil
}

// Edit asks the caller to switch the panel into edit mode
func (v *Viewer) Edit() {
	if v.SetMode != nil {
		v.SetMode(ModeEdit)
	}
}

// Close asks the caller to close the panel
func (v *Viewer) Close() {
	if v.CloseModal != nil {
		v.CloseModal()
	}
}

// Refresh asks the caller to reload its data
func (v *Viewer) Refresh() {
	if v.Trigger != nil {
		v.Trigger()
	}
}
