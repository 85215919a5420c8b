package netparser

const (
	SUMO_NET_SUFFIX = ".net.xml"
	OSM_XML_SUFFIX  = ".osm"
	OSM_PBF_SUFFIX  = ".osm.pbf"
	BZIP2_SUFFIX    = ".bz2"

	SUMO_FUNCTION_INTERNAL = "internal"

	REVERSE_PREFIX = "-"
)

var (
	acceptedHighway = map[string]struct{}{
		"motorway":         struct{}{},
		"motorway_link":    struct{}{},
		"trunk":            struct{}{},
		"trunk_link":       struct{}{},
		"primary":          struct{}{},
		"primary_link":     struct{}{},
		"secondary":        struct{}{},
		"secondary_link":   struct{}{},
		"tertiary":         struct{}{},
		"tertiary_link":    struct{}{},
		"residential":      struct{}{},
		"residential_link": struct{}{},
		"service":          struct{}{},
		"road":             struct{}{},
		"track":            struct{}{},
		"unclassified":     struct{}{},
		"living_street":    struct{}{},
		"motorroad":        struct{}{},
		// kept as segments, closed to passenger cars
		"footway":    struct{}{},
		"cycleway":   struct{}{},
		"path":       struct{}{},
		"pedestrian": struct{}{},
		"steps":      struct{}{},
		"bridleway":  struct{}{},
	}

	// access keys that close a way to passenger cars when tagged "no"
	passengerAccessKeys = []string{"access", "motor_vehicle", "motorcar"}

	// classes a footway-like lane still admits
	nonMotorClasses = []string{"pedestrian", "bicycle"}
)
