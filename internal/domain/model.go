package domain

import "strings"

// Dimension is a width/height pair in pixels.
type Dimension struct {
	Width  int
	Height int
}

// FixedSize is the layout the component expects before its init hook runs.
var FixedSize = Dimension{Width: 765, Height: 503}

// WorldType is a bit set of world flags.
type WorldType uint32

const (
	WorldMembers WorldType = 1 << iota
	WorldPVP
	WorldBounty
	WorldSkillTotal
	WorldHighRisk
	WorldLastManStanding
	WorldTournament
	WorldDeadman
	WorldSeasonal
	WorldNoSave
	WorldFreshStart
	WorldQuestSpeedrunning
	WorldBeta
)

var worldTypeNames = map[string]WorldType{
	"MEMBERS":            WorldMembers,
	"PVP":                WorldPVP,
	"BOUNTY":             WorldBounty,
	"SKILL_TOTAL":        WorldSkillTotal,
	"HIGH_RISK":          WorldHighRisk,
	"LAST_MAN_STANDING":  WorldLastManStanding,
	"TOURNAMENT":         WorldTournament,
	"DEADMAN":            WorldDeadman,
	"SEASONAL":           WorldSeasonal,
	"NOSAVE_MODE":        WorldNoSave,
	"FRESH_START_WORLD":  WorldFreshStart,
	"QUEST_SPEEDRUNNING": WorldQuestSpeedrunning,
	"BETA_WORLD":         WorldBeta,
}

// ToWorldTypes converts the directory's type names into a WorldType set.
// Unknown names are ignored.
func ToWorldTypes(names []string) WorldType {
	var t WorldType
	for _, n := range names {
		t |= worldTypeNames[strings.ToUpper(strings.TrimSpace(n))]
	}
	return t
}

// Has reports whether every flag in f is set.
func (t WorldType) Has(f WorldType) bool {
	return t&f == f
}

// World is a server endpoint descriptor owned by the attached client.
type World struct {
	ID       int       `json:"id"`
	Address  string    `json:"address"`
	Players  int       `json:"players"`
	Location int       `json:"location"`
	Activity string    `json:"activity"`
	Types    WorldType `json:"types"`
}

// WorldEntry is one record of the remote world directory.
type WorldEntry struct {
	ID       int      `json:"id"`
	Types    []string `json:"types"`
	Address  string   `json:"address"`
	Activity string   `json:"activity"`
	Location int      `json:"location"`
	Players  int      `json:"players"`
}

// WorldResult is a snapshot of the remote world directory.
type WorldResult struct {
	Worlds []WorldEntry `json:"worlds"`
}

// FindWorld returns the entry with the given id, or nil.
func (r *WorldResult) FindWorld(id int) *WorldEntry {
	if r == nil {
		return nil
	}
	for i := range r.Worlds {
		if r.Worlds[i].ID == id {
			return &r.Worlds[i]
		}
	}
	return nil
}

// Artifact describes the fetched executable form of the external component.
type Artifact struct {
	// Path is the cached download on disk.
	Path string
	// BinPath is the runnable entry point after preparation.
	BinPath string
	// Version identifies the artifact, usually the initial_jar name.
	Version string
	// Params are the component parameters from the remote config.
	Params map[string]string
}
