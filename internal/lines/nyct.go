package lines

// NYC subway feed group suffixes, appended to the base feed URL
var nyctGroups = map[string]string{
	"A":   "-ace",
	"C":   "-ace",
	"E":   "-ace",
	"Sr":  "-ace",
	"B":   "-bdfm",
	"D":   "-bdfm",
	"F":   "-bdfm",
	"M":   "-bdfm",
	"Sf":  "-bdfm",
	"G":   "-g",
	"J":   "-jz",
	"Z":   "-jz",
	"N":   "-nqrw",
	"Q":   "-nqrw",
	"R":   "-nqrw",
	"W":   "-nqrw",
	"L":   "-l",
	"1":   "",
	"2":   "",
	"3":   "",
	"4":   "",
	"5":   "",
	"6":   "",
	"7":   "",
	"S":   "",
	"SIR": "-si",
}

// Shuttles and the Staten Island Railway use different route ids in the feed
var nyctShuttleRoutes = map[string]string{
	"Sr":  "H",
	"Sf":  "FS",
	"S":   "GS",
	"SIR": "SI",
}

// Default returns the NYC subway registry
func Default() *Registry {
	return NewRegistry(nyctGroups, nyctShuttleRoutes)
}
