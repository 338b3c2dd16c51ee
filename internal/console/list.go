package console

import "github.com/omnia-aid/omnia/internal/model"

// FamilyList is the state of one family list view: the full collection and
// the filtered slice derived from it.
type FamilyList struct {
	all      []model.Family
	filtered []model.Family
	filter   FamilyFilter
}

func NewFamilyList(all []model.Family) *FamilyList {
	l := &FamilyList{}
	l.Load(all)
	return l
}

// Load replaces the collection and re-applies the current filter.
func (l *FamilyList) Load(all []model.Family) {
	l.all = append([]model.Family(nil), all...)
	l.Apply(l.filter)
}

// Apply re-derives the filtered slice from scratch.
func (l *FamilyList) Apply(f FamilyFilter) {
	l.filter = f
	l.filtered = FilterFamilies(l.all, f)
}

// Remove drops a family from both slices after a successful delete.
func (l *FamilyList) Remove(id string) bool {
	removed := false
	l.all, removed = removeFamily(l.all, id)
	l.filtered, _ = removeFamily(l.filtered, id)
	return removed
}

func removeFamily(list []model.Family, id string) ([]model.Family, bool) {
	for i := range list {
		if list[i].ID == id {
			return append(list[:i:i], list[i+1:]...), true
		}
	}
	return list, false
}

func (l *FamilyList) All() []model.Family      { return l.all }
func (l *FamilyList) Visible() []model.Family  { return l.filtered }
func (l *FamilyList) Filter() FamilyFilter     { return l.filter }
func (l *FamilyList) Stats() FamilyStats       { return ComputeFamilyStats(l.all) }
func (l *FamilyList) VisibleStats() FamilyStats { return ComputeFamilyStats(l.filtered) }

// UserList mirrors FamilyList for staff accounts.
type UserList struct {
	all      []model.User
	filtered []model.User
	filter   UserFilter
}

func NewUserList(all []model.User) *UserList {
	l := &UserList{}
	l.Load(all)
	return l
}

func (l *UserList) Load(all []model.User) {
	l.all = append([]model.User(nil), all...)
	l.Apply(l.filter)
}

func (l *UserList) Apply(f UserFilter) {
	l.filter = f
	l.filtered = FilterUsers(l.all, f)
}

func (l *UserList) Remove(id string) bool {
	removed := false
	l.all, removed = removeUser(l.all, id)
	l.filtered, _ = removeUser(l.filtered, id)
	return removed
}

func removeUser(list []model.User, id string) ([]model.User, bool) {
	for i := range list {
		if list[i].ID == id {
			return append(list[:i:i], list[i+1:]...), true
		}
	}
	return list, false
}

func (l *UserList) All() []model.User     { return l.all }
func (l *UserList) Visible() []model.User { return l.filtered }
func (l *UserList) Filter() UserFilter    { return l.filter }
