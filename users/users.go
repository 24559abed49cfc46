package users

import (
	"encoding/json"

	"github.com/jrsteele09/go-token-server/sessions"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// User is a credential record loaded from the credential source. Records are
// read-only once loaded.
type User struct {
	ID       UserID `json:"id" yaml:"id"`
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
	Role     string `json:"role" yaml:"role"`
}

// Identity returns the session identity derived from the record.
func (u User) Identity() sessions.Identity {
	return sessions.Identity{
		UserID:   string(u.ID),
		Username: u.Username,
		Role:     u.Role,
	}
}

// UserID is the id of a credential record. Sources carry it as a number or a
// string; numbers keep their literal text.
type UserID string

func (id *UserID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errors.Wrap(err, "users.UserID json")
		}
		*id = UserID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.Wrapf(err, "users.UserID json: id must be a number or a string, got %s", data)
	}
	*id = UserID(n)
	return nil
}

func (id *UserID) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return errors.Errorf("users.UserID yaml: line %d: id must be a number or a string", node.Line)
	}
	var s string
	if err := node.Decode(&s); err != nil {
		return errors.Wrap(err, "users.UserID yaml")
	}
	*id = UserID(s)
	return nil
}
