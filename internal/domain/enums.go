package domain

// Category is the product line a figure belongs to.
type Category string

const (
	CategoryMarvel Category = "MARVEL"
	CategoryDisney Category = "DISNEY"
	CategoryAnime  Category = "ANIME"
	CategoryOther  Category = "OTROS"
)

func (c Category) String() string { return string(c) }

func (c Category) IsValid() bool {
	switch c {
	case CategoryMarvel, CategoryDisney, CategoryAnime, CategoryOther:
		return true
	}
	return false
}

// Role represents a user's privilege level.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

func (r Role) String() string { return string(r) }

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleUser:
		return true
	}
	return false
}

// EventKind identifies the mutation a catalog event describes.
type EventKind string

const (
	EventCreated EventKind = "CREATED"
	EventUpdated EventKind = "UPDATED"
	EventDeleted EventKind = "DELETED"
)

func (k EventKind) String() string { return string(k) }
