package constants

// Resolution most hardware phrase/arp importers expect.
const DefaultTargetTicksPerQuarter = 480

// Largest resolution a metric SMF header can declare; bit 15 marks SMPTE.
const MaxTicksPerQuarter = 0x7FFF

// Capacity guard for merged containers.
const MaxMergeTracks = 16

const (
	DefaultTempoBPM    = 120.0
	DefaultNumerator   = 4
	DefaultDenominator = 4
)

const DefaultPort = "8765"

// Folder created under the root for rewritten files.
const DefaultDestDirName = "selected"

// Longest file name produced for merged packs, extension included.
const MaxPackNameLength = 180

// Channel index (0-based) of the General MIDI percussion channel.
const DrumChannel = 9
