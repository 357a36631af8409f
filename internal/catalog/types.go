package catalog

import (
	"encoding/json"
	"fmt"
)

// Film mirrors a record of the /films collection.
type Film struct {
	ID          int64   `json:"id,omitempty" yaml:"id"`
	Title       string  `json:"title" yaml:"title"`
	Year        int     `json:"year" yaml:"year"`
	Director    string  `json:"director" yaml:"director"`
	Genre       string  `json:"genre" yaml:"genre"`
	Rating      float64 `json:"rating" yaml:"rating"`
	Description string  `json:"description" yaml:"description"`
	Poster      string  `json:"poster" yaml:"poster"`
}

// FilmPatch is a partial film update. Nil fields are left untouched.
type FilmPatch struct {
	Title       *string  `json:"title,omitempty"`
	Year        *int     `json:"year,omitempty"`
	Director    *string  `json:"director,omitempty"`
	Genre       *string  `json:"genre,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	Description *string  `json:"description,omitempty"`
	Poster      *string  `json:"poster,omitempty"`
}

// Apply merges the non-nil fields of p over f and returns the result.
func (p FilmPatch) Apply(f Film) Film {
	if p.Title != nil {
		f.Title = *p.Title
	}
	if p.Year != nil {
		f.Year = *p.Year
	}
	if p.Director != nil {
		f.Director = *p.Director
	}
	if p.Genre != nil {
		f.Genre = *p.Genre
	}
	if p.Rating != nil {
		f.Rating = *p.Rating
	}
	if p.Description != nil {
		f.Description = *p.Description
	}
	if p.Poster != nil {
		f.Poster = *p.Poster
	}
	return f
}

// IsEmpty reports whether the patch changes nothing.
func (p FilmPatch) IsEmpty() bool {
	return p == FilmPatch{}
}

// User mirrors a record of the /users collection. Profile fields other than
// the ones marquee understands are kept in Extra and sent back unchanged.
type User struct {
	ID       int64
	Username string
	Email    string
	Role     string
	Extra    map[string]json.RawMessage
}

const roleAdmin = "admin"

// IsAdmin reports whether the user carries the admin role.
func (u User) IsAdmin() bool {
	return u.Role == roleAdmin
}

var userKnownFields = []string{"id", "username", "email", "role"}

// UnmarshalJSON splits the payload into known fields and opaque extras.
func (u *User) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var out User
	if v, ok := raw["id"]; ok {
		if err := json.Unmarshal(v, &out.ID); err != nil {
			return fmt.Errorf("user id: %w", err)
		}
	}
	for key, dest := range map[string]*string{"username": &out.Username, "email": &out.Email, "role": &out.Role} {
		v, ok := raw[key]
		if !ok || string(v) == "null" {
			continue
		}
		if err := json.Unmarshal(v, dest); err != nil {
			return fmt.Errorf("user %s: %w", key, err)
		}
	}
	for _, key := range userKnownFields {
		delete(raw, key)
	}
	if len(raw) > 0 {
		out.Extra = raw
	}
	*u = out
	return nil
}

// MarshalJSON emits the known fields plus extras. A zero id or empty role is
// omitted so create payloads carry no id.
func (u User) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(u.Extra)+4)
	for k, v := range u.Extra {
		out[k] = v
	}
	if u.ID != 0 {
		out["id"] = u.ID
	}
	out["username"] = u.Username
	out["email"] = u.Email
	if u.Role != "" {
		out["role"] = u.Role
	}
	return json.Marshal(out)
}

// UserPatch is a partial user update.
type UserPatch struct {
	Username *string
	Email    *string
	Role     *string
	Extra    map[string]json.RawMessage
}

// MarshalJSON emits only the fields set on the patch.
func (p UserPatch) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Extra)+3)
	for k, v := range p.Extra {
		out[k] = v
	}
	if p.Username != nil {
		out["username"] = *p.Username
	}
	if p.Email != nil {
		out["email"] = *p.Email
	}
	if p.Role != nil {
		out["role"] = *p.Role
	}
	return json.Marshal(out)
}
