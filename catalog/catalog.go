package catalog

import (
	"os"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Catalog is the ordered list of survey prompts. It is read on every
// step of every session and edited only by the main admin, so it keeps
// a read/write lock and hands out copies.
type Catalog struct {
	mu        sync.RWMutex
	questions []string
}

var defaultQuestions = []string{
	"1) Brief summary of your week:",
	"2) New projects you are working on:",
	"3) Points of attention for the team:",
	"4) Any other activities you want to mention:",
}

var ErrOutOfRange = errors.New("question number out of range")

func New(questions []string) *Catalog {
	return &Catalog{questions: append([]string{}, questions...)}
}

// Load reads the question list from a YAML file. A missing file is not
// an error: the stock weekly questions are used instead.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return New(defaultQuestions), nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read questions file")
	}

	var file struct {
		Questions []string `yaml:"questions"`
	}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, errors.Wrap(err, "parse questions file")
	}
	if len(file.Questions) == 0 {
		return nil, errors.New("questions file lists no questions")
	}
	return New(file.Questions), nil
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.questions)
}

// Question returns the prompt at index i, or false when i is out of bounds.
func (c *Catalog) Question(i int) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i < 0 || i >= len(c.questions) {
		return "", false
	}
	return c.questions[i], true
}

// List returns a copy of the prompts in display order.
func (c *Catalog) List() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string{}, c.questions...)
}

// Add appends a prompt at the end of the list.
func (c *Catalog) Add(question string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.questions = append(c.questions, question)
}

// Remove deletes the prompt at index i, shifting later prompts up.
// The last question cannot be removed: sessions require a non-empty list.
func (c *Catalog) Remove(i int) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.questions) {
		return "", ErrOutOfRange
	}
	if len(c.questions) == 1 {
		return "", errors.New("cannot remove the last question")
	}
	removed := c.questions[i]
	c.questions = append(c.questions[:i], c.questions[i+1:]...)
	return removed, nil
}
