package elements

// Canonical unit IDs. NoUnit marks an empty tile.
const (
	NoUnit = 0

	Infantry = 1
	Mech     = 2

	APC        = 11
	Recon      = 12
	Tank       = 13
	MdTank     = 14
	Neotank    = 15
	Megatank   = 16
	AntiAir    = 17
	Artillery  = 21
	Rocket     = 22
	Missile    = 23
	Piperunner = 24
	Oozium     = 25

	TCopter   = 31
	BCopter   = 32
	Fighter   = 33
	Bomber    = 34
	Stealth   = 35
	BlackBomb = 36

	Lander     = 41
	BlackBoat  = 42
	Cruiser    = 43
	Submarine  = 44
	Battleship = 45
	Carrier    = 46
)

// Units lists every canonical unit ID in ascending order, excluding NoUnit.
var Units = []int{
	Infantry, Mech,
	APC, Recon, Tank, MdTank, Neotank, Megatank, AntiAir,
	Artillery, Rocket, Missile, Piperunner, Oozium,
	TCopter, BCopter, Fighter, Bomber, Stealth, BlackBomb,
	Lander, BlackBoat, Cruiser, Submarine, Battleship, Carrier,
}

var unitNames = map[int]string{
	Infantry:   "Infantry",
	Mech:       "Mech",
	APC:        "APC",
	Recon:      "Recon",
	Tank:       "Tank",
	MdTank:     "Md. Tank",
	Neotank:    "Neotank",
	Megatank:   "Megatank",
	AntiAir:    "Anti-Air",
	Artillery:  "Artillery",
	Rocket:     "Rocket",
	Missile:    "Missile",
	Piperunner: "Piperunner",
	Oozium:     "Oozium",
	TCopter:    "T-Copter",
	BCopter:    "B-Copter",
	Fighter:    "Fighter",
	Bomber:     "Bomber",
	Stealth:    "Stealth",
	BlackBomb:  "Black Bomb",
	Lander:     "Lander",
	BlackBoat:  "Black Boat",
	Cruiser:    "Cruiser",
	Submarine:  "Submarine",
	Battleship: "Battleship",
	Carrier:    "Carrier",
}

// IsValidUnit reports whether u is a canonical unit ID (NoUnit included).
func IsValidUnit(u int) bool {
	if u == NoUnit {
		return true
	}
	_, ok := unitNames[u]
	return ok
}

// UnitName returns a display name, "" for NoUnit and "Unknown" otherwise.
func UnitName(u int) string {
	if u == NoUnit {
		return ""
	}
	if n, ok := unitNames[u]; ok {
		return n
	}
	return "Unknown"
}
