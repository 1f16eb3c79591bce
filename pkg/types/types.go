// Package types provides core types and configurations for Packline
package types

import (
	"fmt"
	"strings"
)

// RuleName identifies a quality rule
type RuleName string

const (
	RuleWeight RuleName = "weight"
	RuleColor  RuleName = "color"
	RuleLength RuleName = "length"
)

// Violation describes a single failed quality rule
type Violation struct {
	Rule    RuleName `json:"rule" yaml:"rule"`
	Message string   `json:"message" yaml:"message"`
}

func (v Violation) String() string {
	return v.Message
}

// Part represents a single inspected production unit.
// The ID is assigned at registration and never reused; Approved and
// Violations are set exactly once, at registration time. BoxID is the
// identifier of the box holding the part, or 0 while unboxed.
type Part struct {
	ID         int         `json:"id" yaml:"id"`
	Weight     float64     `json:"weight" yaml:"weight"`
	Color      string      `json:"color" yaml:"color"`
	Length     float64     `json:"length" yaml:"length"`
	Approved   bool        `json:"approved" yaml:"approved"`
	Violations []Violation `json:"violations,omitempty" yaml:"violations,omitempty"`
	BoxID      int         `json:"boxId,omitempty" yaml:"boxId,omitempty"`
}

// NewPart constructs a part with normalized attributes. Color is
// lowercased so rule evaluation and display agree on casing.
func NewPart(id int, weight float64, color string, length float64) *Part {
	return &Part{
		ID:     id,
		Weight: weight,
		Color:  strings.ToLower(color),
		Length: length,
	}
}

// Reasons returns the human-readable rejection reasons in rule order.
// Empty iff the part was approved.
func (p *Part) Reasons() []string {
	reasons := make([]string, len(p.Violations))
	for i, v := range p.Violations {
		reasons[i] = v.Message
	}
	return reasons
}

func (p *Part) String() string {
	return fmt.Sprintf("Part #%d - Weight: %gg, Color: %s, Length: %gcm", p.ID, p.Weight, p.Color, p.Length)
}

// Box is a fixed-capacity ordered container for approved parts.
// Identity is sequential from 1 and stable: box numbers are never
// reassigned after a box is deleted. Parts holds insertion order.
type Box struct {
	ID       int     `json:"id" yaml:"id"`
	Capacity int     `json:"capacity" yaml:"capacity"`
	Parts    []*Part `json:"parts" yaml:"parts"`
	Closed   bool    `json:"closed" yaml:"closed"`
}

// IsFull reports whether the box has reached capacity
func (b *Box) IsFull() bool {
	return len(b.Parts) >= b.Capacity
}

// IsEmpty reports whether the box holds no parts
func (b *Box) IsEmpty() bool {
	return len(b.Parts) == 0
}

// PartIDs returns the contained part IDs in packing order
func (b *Box) PartIDs() []int {
	ids := make([]int, len(b.Parts))
	for i, p := range b.Parts {
		ids[i] = p.ID
	}
	return ids
}

func (b *Box) String() string {
	status := "OPEN"
	if b.Closed {
		status = "CLOSED"
	}
	return fmt.Sprintf("Box #%d - %d/%d parts - Status: %s", b.ID, len(b.Parts), b.Capacity, status)
}

// Range is an inclusive numeric tolerance
type Range struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Contains reports whether v lies within the range, bounds included
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// QualityConfig holds the tolerance rules applied at registration
type QualityConfig struct {
	Weight        Range    `json:"weight" yaml:"weight"`
	AllowedColors []string `json:"allowedColors" yaml:"allowedColors"`
	Length        Range    `json:"length" yaml:"length"`
}

// PackingConfig holds box parameters
type PackingConfig struct {
	BoxCapacity int `json:"boxCapacity" yaml:"boxCapacity"`
}

// BatchColumns maps the three required part attributes to CSV header
// names. Header matching is case-insensitive and whitespace-trimmed.
type BatchColumns struct {
	Weight string `json:"weight" yaml:"weight"`
	Color  string `json:"color" yaml:"color"`
	Length string `json:"length" yaml:"length"`
}

// BatchConfig holds batch import parameters
type BatchConfig struct {
	Columns BatchColumns `json:"columns" yaml:"columns"`
}

// IntakeConfig holds drop-directory watch parameters
type IntakeConfig struct {
	Directory     string `json:"directory" yaml:"directory"`
	SettlingDelay int    `json:"settlingDelay,omitempty" yaml:"settlingDelay,omitempty"` // milliseconds
}

// NotificationConfig controls desktop notifications
type NotificationConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// LoggingConfig controls log output
type LoggingConfig struct {
	Level string `json:"level,omitempty" yaml:"level,omitempty"`
	File  string `json:"file,omitempty" yaml:"file,omitempty"`
}

// PacklineConfig is the root configuration document
type PacklineConfig struct {
	Version       string              `json:"version" yaml:"version"`
	Quality       QualityConfig       `json:"quality" yaml:"quality"`
	Packing       PackingConfig       `json:"packing" yaml:"packing"`
	Batch         BatchConfig         `json:"batch" yaml:"batch"`
	Intake        *IntakeConfig       `json:"intake,omitempty" yaml:"intake,omitempty"`
	Notifications *NotificationConfig `json:"notifications,omitempty" yaml:"notifications,omitempty"`
	Logging       *LoggingConfig      `json:"logging,omitempty" yaml:"logging,omitempty"`
}

// Defaults matching the reference production line
const (
	DefaultBoxCapacity   = 10
	DefaultWeightMin     = 95
	DefaultWeightMax     = 105
	DefaultLengthMin     = 10
	DefaultLengthMax     = 20
	DefaultSettlingDelay = 500 // milliseconds
	ConfigVersion        = "1.0"
)

// DefaultConfig returns the configuration used when no config file is present
func DefaultConfig() *PacklineConfig {
	return &PacklineConfig{
		Version: ConfigVersion,
		Quality: QualityConfig{
			Weight:        Range{Min: DefaultWeightMin, Max: DefaultWeightMax},
			AllowedColors: []string{"blue", "green"},
			Length:        Range{Min: DefaultLengthMin, Max: DefaultLengthMax},
		},
		Packing: PackingConfig{BoxCapacity: DefaultBoxCapacity},
		Batch: BatchConfig{
			Columns: BatchColumns{
				Weight: "weight",
				Color:  "color",
				Length: "length",
			},
		},
		Notifications: &NotificationConfig{Enabled: false},
	}
}
