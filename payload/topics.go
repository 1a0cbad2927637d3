package payload

import "strings"

// A TopicGroup is a contiguous run of the canonical topic list shown as one
// page of the topic picker.
type TopicGroup struct {
	Name string
	// Start and End bound the group's slice of Topics, End exclusive.
	Start, End int
}

// canonicalTopics mirrors the section structure of the standard BEP
// template, in document order. The topic names double as removal keys: a
// deselected topic is located in the document by normalized heading match,
// so each entry must stay normalization-distinct from every other.
var canonicalTopics = []string{
	// Project Information
	"Project Information",
	"Project Description",
	"Key Project Contacts",
	"Project Goals and BIM Uses",
	"Roles and Responsibilities",
	"Project Milestones",
	"Contract and Procurement",
	"Project Phases",
	"Deliverables",
	"Information Exchange Schedule",

	// Collaboration and Data Exchange
	"Collaboration Method",
	"Common Data Environment",
	"Cloud Worksharing",
	"Publishing and Consumption",
	"Auto-Publish Cadence",
	"Package Sharing Workflow",
	"Package Naming Convention",
	"Coordination Meetings",
	"Clash Detection Workflow",
	"Clash Session Matrix",
	"Issue Management",
	"Communication Protocols",

	// Model Management
	"Model Setup",
	"Geo-Referencing and Coordinates",
	"Shared Coordinates Workflow",
	"Worksets",
	"Phasing",
	"Levels",
	"Grids",
	"Linked Models",
	"Model Maintenance",
	"Model Performance",
	"Quality Control Checks",
	"Model Ownership and Handover",

	// Standards and Appendices
	"Approved Software Versions",
	"File Naming Standards",
	"Sheet Naming and Numbering",
	"Annotation Standards",
	"View Naming and Templates",
	"Family and Component Standards",
	"Level of Development",
	"Publishing Views for Coordination",
	"Recommended Views",
	"Appendix and References",
}

var topicGroups = []TopicGroup{
	{Name: "Project Information", Start: 0, End: 10},
	{Name: "Collaboration and Data Exchange", Start: 10, End: 22},
	{Name: "Model Management", Start: 22, End: 34},
	{Name: "Standards and Appendices", Start: 34, End: 44},
}

// Topics returns the canonical topic list in document order.
func Topics() []string {
	out := make([]string, len(canonicalTopics))
	copy(out, canonicalTopics)
	return out
}

// Groups returns the group boundaries over the canonical topic list.
func Groups() []TopicGroup {
	out := make([]TopicGroup, len(topicGroups))
	copy(out, topicGroups)
	return out
}

// GroupTopics returns the topic names belonging to group g.
func GroupTopics(g TopicGroup) []string {
	out := make([]string, g.End-g.Start)
	copy(out, canonicalTopics[g.Start:g.End])
	return out
}

// TopicSelection tracks which canonical topics stay in the generated
// document. The zero value is unusable; construct with NewTopicSelection.
type TopicSelection struct {
	kept map[string]bool
}

// NewTopicSelection returns a selection with every topic kept.
func NewTopicSelection() *TopicSelection {
	sel := &TopicSelection{kept: make(map[string]bool, len(canonicalTopics))}
	for _, t := range canonicalTopics {
		sel.kept[topicKey(t)] = true
	}
	return sel
}

func topicKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// IsKnown reports whether name is a canonical topic, case-insensitively.
func (s *TopicSelection) IsKnown(name string) bool {
	_, ok := s.kept[topicKey(name)]
	return ok
}

// Keep marks a topic as kept. Unknown names are ignored so stale preset
// files cannot grow the catalogue.
func (s *TopicSelection) Keep(name string) {
	if s.IsKnown(name) {
		s.kept[topicKey(name)] = true
	}
}

// Drop marks a topic for removal. Unknown names are ignored.
func (s *TopicSelection) Drop(name string) {
	if s.IsKnown(name) {
		s.kept[topicKey(name)] = false
	}
}

// Toggle flips a known topic and reports its new state.
func (s *TopicSelection) Toggle(name string) bool {
	if !s.IsKnown(name) {
		return false
	}
	k := topicKey(name)
	s.kept[k] = !s.kept[k]
	return s.kept[k]
}

// IsKept reports whether a topic stays in the document. Unknown topics
// report false.
func (s *TopicSelection) IsKept(name string) bool {
	return s.kept[topicKey(name)]
}

// Removed returns the deselected topic names in canonical order. This is
// the list handed to the section remover.
func (s *TopicSelection) Removed() []string {
	var out []string
	for _, t := range canonicalTopics {
		if !s.kept[topicKey(t)] {
			out = append(out, t)
		}
	}
	return out
}

// Kept returns the selected topic names in canonical order.
func (s *TopicSelection) Kept() []string {
	var out []string
	for _, t := range canonicalTopics {
		if s.kept[topicKey(t)] {
			out = append(out, t)
		}
	}
	return out
}

// SetRemoved replaces the selection with "everything kept except names".
// Unknown names are ignored.
func (s *TopicSelection) SetRemoved(names []string) {
	for _, t := range canonicalTopics {
		s.kept[topicKey(t)] = true
	}
	for _, n := range names {
		s.Drop(n)
	}
}
