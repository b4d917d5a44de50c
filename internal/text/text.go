// Package text provides loading and lookup for externalized game text:
// the banner, riddles, encounter narratives and turn messages.
package text

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// TextData represents the structure of the text.yaml file.
type TextData struct {
	Welcome    WelcomeText              `yaml:"welcome"`
	Riddles    []Riddle                 `yaml:"riddles"`
	Encounters map[string]EncounterText `yaml:"encounters"`
	Messages   MessageText              `yaml:"messages"`
}

// WelcomeText contains the start screen text.
type WelcomeText struct {
	Banner string `yaml:"banner"`
	Start  string `yaml:"start"`
}

// Riddle is the question gating the start of a map.
type Riddle struct {
	Intro    string   `yaml:"intro"`
	Question string   `yaml:"question"`
	Answers  []string `yaml:"answers"`
}

// EncounterText is the narrative and check difficulty of one encounter kind.
type EncounterText struct {
	Difficulty int    `yaml:"difficulty"`
	Roll       string `yaml:"roll"` // dice notation, e.g. "1d20+1"
	Intro      string `yaml:"intro"`
	Success    string `yaml:"success"`
	Failure    string `yaml:"failure"`
}

// MessageText contains the short lines printed during play.
type MessageText struct {
	RiddleCorrect    string `yaml:"riddle_correct"`
	RiddleWrong      string `yaml:"riddle_wrong"`
	RiddleBlocked    string `yaml:"riddle_blocked"`
	Blocked          string `yaml:"blocked"`
	InvalidDirection string `yaml:"invalid_direction"`
	GoalReached      string `yaml:"goal_reached"`
	NextMap          string `yaml:"next_map"`
	Procedural       string `yaml:"procedural"`
	Goodbye          string `yaml:"goodbye"`
}

// Text provides text lookup functionality.
type Text struct {
	data *TextData
	mu   sync.RWMutex
}

var (
	instance *Text
	once     sync.Once
)

// fallbackRiddle is used when text.yaml defines no riddles.
var fallbackRiddle = Riddle{
	Intro:    "A mysterious figure blocks your way and asks the following riddle:",
	Question: "I speak without a mouth and hear without ears. I have no body, but I come alive with wind. What am I?",
	Answers:  []string{"echo"},
}

// Load loads text data from a YAML file.
func Load(path string) (*Text, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read text file: %w", err)
	}
	return Parse(data)
}

// Parse decodes text data from YAML bytes.
func Parse(data []byte) (*Text, error) {
	var textData TextData
	if err := yaml.Unmarshal(data, &textData); err != nil {
		return nil, fmt.Errorf("failed to parse text file: %w", err)
	}

	for i, r := range textData.Riddles {
		if strings.TrimSpace(r.Question) == "" || len(r.Answers) == 0 {
			return nil, fmt.Errorf("riddle %d needs a question and at least one answer", i)
		}
	}

	return &Text{data: &textData}, nil
}

// GetInstance returns the singleton text instance.
// Must call Initialize first.
func GetInstance() *Text {
	return instance
}

// Initialize loads the text data and sets the singleton instance.
func Initialize(path string) error {
	var err error
	once.Do(func() {
		instance, err = Load(path)
	})
	return err
}

// GetWelcomeBanner returns the welcome banner text.
func (t *Text) GetWelcomeBanner() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return strings.TrimSpace(t.data.Welcome.Banner)
}

// GetStartLine returns the line printed above the first map.
func (t *Text) GetStartLine() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return orDefault(t.data.Welcome.Start, "Starting the game! Here's the initial map:")
}

// RiddleCount returns how many riddles are defined.
func (t *Text) RiddleCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.data.Riddles)
}

// GetRiddle returns the riddle for a map. Riddles cycle when maps outnumber them.
func (t *Text) GetRiddle(mapIndex int) Riddle {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if len(t.data.Riddles) == 0 || mapIndex < 0 {
		return fallbackRiddle
	}
	r := t.data.Riddles[mapIndex%len(t.data.Riddles)]
	if r.Intro == "" {
		r.Intro = fallbackRiddle.Intro
	}
	return r
}

// Matches reports whether answer solves the riddle. Case and surrounding
// whitespace are ignored, as is a leading "a", "an" or "the".
func (r Riddle) Matches(answer string) bool {
	given := normalizeAnswer(answer)
	if given == "" {
		return false
	}
	for _, a := range r.Answers {
		if normalizeAnswer(a) == given {
			return true
		}
	}
	return false
}

func normalizeAnswer(s string) string {
	s = strings.ToLower(strings.Join(strings.Fields(s), " "))
	for _, article := range []string{"a ", "an ", "the "} {
		s = strings.TrimPrefix(s, article)
	}
	return s
}

// GetEncounter returns the narrative for an encounter kind.
func (t *Text) GetEncounter(kind string) (EncounterText, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	e, ok := t.data.Encounters[strings.ToLower(kind)]
	if !ok {
		return EncounterText{}, false
	}
	e.Intro = strings.TrimSpace(e.Intro)
	e.Success = strings.TrimSpace(e.Success)
	e.Failure = strings.TrimSpace(e.Failure)
	return e, true
}

// Messages returns the turn messages with built-in defaults for any left unset.
func (t *Text) Messages() MessageText {
	t.mu.RLock()
	defer t.mu.RUnlock()

	m := t.data.Messages
	return MessageText{
		RiddleCorrect:    orDefault(m.RiddleCorrect, "Correct! The path is now open."),
		RiddleWrong:      orDefault(m.RiddleWrong, "Incorrect. The path remains blocked."),
		RiddleBlocked:    orDefault(m.RiddleBlocked, "The figure will not let you pass until you answer the riddle."),
		Blocked:          orDefault(m.Blocked, "You can't go that way."),
		InvalidDirection: orDefault(m.InvalidDirection, "Invalid direction. Try again."),
		GoalReached:      orDefault(m.GoalReached, "Congratulations! You've reached the goal!"),
		NextMap:          orDefault(m.NextMap, "You step through to map %d."),
		Procedural:       orDefault(m.Procedural, "The hand-drawn maps are behind you. The labyrinth now shapes itself."),
		Goodbye:          orDefault(m.Goodbye, "Farewell, wanderer."),
	}
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return def
}
