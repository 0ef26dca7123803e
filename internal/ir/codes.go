package ir

import "fmt"

// Roomba IR command codes.
const (
	// Remote control
	Left     uint8 = 129
	Forward  uint8 = 130
	Right    uint8 = 131
	Spot     uint8 = 132
	Max      uint8 = 133
	Small    uint8 = 134
	Medium   uint8 = 135
	Clean    uint8 = 136
	Stop     uint8 = 137
	Power    uint8 = 138
	ArcLeft  uint8 = 139
	ArcRight uint8 = 140
	Pause    uint8 = 141 // a second stop code on some remotes

	// Scheduling remote
	Download uint8 = 142
	SeekDock uint8 = 143

	// Roomba Discovery drive-on charger
	DiscoveryReserved            uint8 = 240
	DiscoveryForceField          uint8 = 242
	DiscoveryGreenBuoy           uint8 = 244
	DiscoveryGreenBuoyForceField uint8 = 246
	DiscoveryRedBuoy             uint8 = 248
	DiscoveryRedBuoyForceField   uint8 = 250
	DiscoveryRedGreenBuoy        uint8 = 252
	DiscoveryAll                 uint8 = 254

	// Roomba 500 drive-on charger
	ChargerReserved            uint8 = 160
	ChargerForceField          uint8 = 161
	ChargerGreenBuoy           uint8 = 164
	ChargerGreenBuoyForceField uint8 = 165
	ChargerRedBuoy             uint8 = 168
	ChargerRedBuoyForceField   uint8 = 169
	ChargerRedGreenBuoy        uint8 = 172
	ChargerAll                 uint8 = 173

	// VirtualWall makes the robot treat the emitter as an impassable barrier.
	VirtualWall uint8 = 162
)

// Beam selects which lighthouse beam a code describes.
type Beam uint8

const (
	BeamFence Beam = iota
	BeamForceField
	BeamGreenBuoy
	BeamRedBuoy
)

// LighthouseUnbound is the ID of a lighthouse not yet paired with a robot.
const LighthouseUnbound = 11

// Lighthouse encodes a Virtual Wall Lighthouse byte, 0LLLL0BB, where LLLL is
// the lighthouse ID (1-10, or 11 when unbound) and BB the beam. IDs 12-15 are
// reserved. No variant transmits lighthouse codes yet.
func Lighthouse(id uint8, beam Beam) (Frame, error) {
	if id < 1 || id > LighthouseUnbound {
		return Frame{}, fmt.Errorf("lighthouse id %d out of range 1-%d", id, LighthouseUnbound)
	}
	if beam > BeamRedBuoy {
		return Frame{}, fmt.Errorf("lighthouse beam %d out of range", beam)
	}
	return Frame{Code: id<<3 | uint8(beam)}, nil
}
