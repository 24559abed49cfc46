package users

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// jsonSource and yamlSource mirror the on-disk layout {"auth": {"users": [...]}}.
// Records stay undecoded so a bad one can be skipped on its own.
type jsonSource struct {
	Auth struct {
		Users []json.RawMessage `json:"users"`
	} `json:"auth"`
}

type yamlSource struct {
	Auth struct {
		Users []yaml.Node `yaml:"users"`
	} `yaml:"auth"`
}

// LoadFile reads credential records from a JSON or YAML file, chosen by extension.
// Anything other than .yaml or .yml is parsed as JSON.
func LoadFile(path string) ([]User, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "users.LoadFile read")
	}
	return Parse(raw, filepath.Ext(path))
}

// Parse decodes credential records. ext selects the format the way LoadFile does.
// An error means the document itself is unusable. Records that do not fit User
// are logged and skipped.
func Parse(raw []byte, ext string) ([]User, error) {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		var src yamlSource
		if err := yaml.Unmarshal(raw, &src); err != nil {
			return nil, errors.Wrap(err, "users.Parse yaml")
		}
		return decodeRecords(len(src.Auth.Users), func(i int, u *User) error {
			return src.Auth.Users[i].Decode(u)
		}), nil
	default:
		var src jsonSource
		if err := json.NewDecoder(bytes.NewReader(raw)).Decode(&src); err != nil {
			return nil, errors.Wrap(err, "users.Parse json")
		}
		return decodeRecords(len(src.Auth.Users), func(i int, u *User) error {
			return json.Unmarshal(src.Auth.Users[i], u)
		}), nil
	}
}

func decodeRecords(n int, decode func(i int, u *User) error) []User {
	records := make([]User, 0, n)
	for i := 0; i < n; i++ {
		var u User
		if err := decode(i, &u); err != nil {
			log.Warn().Err(err).Int("index", i).Msg("Skipping malformed credential record")
			continue
		}
		records = append(records, u)
	}
	return records
}

// LoadOrEmpty loads the credential file and never fails: when the source is
// missing or malformed it logs a warning and returns an empty store, so every
// login is rejected until the file is fixed.
func LoadOrEmpty(path string) *StaticRepo {
	records, err := LoadFile(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Unable to load credential source, starting with no users")
		return NewStaticRepo(nil)
	}
	log.Info().Str("path", path).Int("users", len(records)).Msg("Loaded credential source")
	return NewStaticRepo(records)
}
