package store

import (
	_ "embed"
	"errors"
	"fmt"
	"io"

	"postbrowser/app/models"

	"gopkg.in/yaml.v3"
)

//go:embed fixture.yaml
var defaultFixture []byte

// ErrAlreadySeeded is returned by Seed when the database already has users.
var ErrAlreadySeeded = errors.New("store already contains users")

// Fixture is the seed data set.
type Fixture struct {
	Users    []models.User    `yaml:"users"`
	Posts    []models.Post    `yaml:"posts"`
	Comments []models.Comment `yaml:"comments"`
}

// DefaultFixture returns the fixture compiled into the binary.
func DefaultFixture() (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(defaultFixture, &f); err != nil {
		return nil, fmt.Errorf("parse embedded fixture: %w", err)
	}
	return &f, nil
}

// LoadFixture parses a YAML fixture.
func LoadFixture(r io.Reader) (*Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	return &f, nil
}

// Validate checks every entity and the references between them.
func (f *Fixture) Validate() error {
	users := make(map[int]bool, len(f.Users))
	for i := range f.Users {
		if err := f.Users[i].Validate(); err != nil {
			return fmt.Errorf("user %d: %w", f.Users[i].ID, err)
		}
		users[f.Users[i].ID] = true
	}
	posts := make(map[int]bool, len(f.Posts))
	for i := range f.Posts {
		p := &f.Posts[i]
		if err := p.Validate(); err != nil {
			return fmt.Errorf("post %d: %w", p.ID, err)
		}
		if !users[p.UserID] {
			return fmt.Errorf("post %d: unknown user %d", p.ID, p.UserID)
		}
		posts[p.ID] = true
	}
	for i := range f.Comments {
		c := &f.Comments[i]
		if err := c.Validate(); err != nil {
			return fmt.Errorf("comment %d: %w", c.ID, err)
		}
		if !posts[c.PostID] {
			return fmt.Errorf("comment %d: unknown post %d", c.ID, c.PostID)
		}
	}
	return nil
}

// Seed writes the fixture into empty stores.
func Seed(s Stores, f *Fixture) error {
	if err := f.Validate(); err != nil {
		return err
	}
	existing, err := s.Users.List()
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return ErrAlreadySeeded
	}

	for i := range f.Users {
		if err := s.Users.Create(&f.Users[i]); err != nil {
			return fmt.Errorf("seed user %d: %w", f.Users[i].ID, err)
		}
	}
	for i := range f.Posts {
		if err := s.Posts.Create(&f.Posts[i]); err != nil {
			return fmt.Errorf("seed post %d: %w", f.Posts[i].ID, err)
		}
	}
	for i := range f.Comments {
		if err := s.Comments.Create(&f.Comments[i]); err != nil {
			return fmt.Errorf("seed comment %d: %w", f.Comments[i].ID, err)
		}
	}
	return nil
}
