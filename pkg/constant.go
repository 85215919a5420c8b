package pkg

const (
	INF_WEIGHT float64 = 1e15

	// INTERNAL_SEGMENT_MARKER prefixes intersection-internal segment ids.
	INTERNAL_SEGMENT_MARKER = ":"

	// vehicle class a lane must permit for a segment to be routable by car
	PASSENGER_CLASS = "passenger"
)

const (
	DEFAULT_WINDOW_SIZE          = 5
	DEFAULT_REFRESH_CADENCE      = 10
	DEFAULT_SPEED_FLOOR  float64 = 0.1 // m/s
	DEFAULT_MAX_ROUTE_ATTEMPTS   = 100
	DEFAULT_MIN_PATCH_PRIORITY   = 8 // primary_link
)

type OsmHighwayType uint8

// enum buat osm highway buat routing: https://wiki.openstreetmap.org/wiki/OSM_tags_for_routing/Telenav
const (
	MOTORWAY       OsmHighwayType = 0
	TRUNK          OsmHighwayType = 1
	PRIMARY        OsmHighwayType = 2
	SECONDARY      OsmHighwayType = 3
	TERTIARY       OsmHighwayType = 4
	RESIDENTIAL    OsmHighwayType = 5
	SERVICE        OsmHighwayType = 6
	UNCLASSIFIED   OsmHighwayType = 7
	MOTORWAY_LINK  OsmHighwayType = 8
	TRUNK_LINK     OsmHighwayType = 9
	PRIMARY_LINK   OsmHighwayType = 10
	SECONDARY_LINK OsmHighwayType = 11
	TERTIARY_LINK  OsmHighwayType = 12
	LIVING_STREET  OsmHighwayType = 13
	ROAD           OsmHighwayType = 14
	TRACK          OsmHighwayType = 15
	MOTORROAD      OsmHighwayType = 16
	FOOTWAY        OsmHighwayType = 17
	UNKNOWN        OsmHighwayType = 18
)

func GetHighwayType(roadType string) OsmHighwayType {
	switch roadType {
	case "motorway":
		return MOTORWAY
	case "trunk":
		return TRUNK
	case "primary":
		return PRIMARY
	case "secondary":
		return SECONDARY
	case "tertiary":
		return TERTIARY
	case "unclassified":
		return UNCLASSIFIED
	case "residential":
		return RESIDENTIAL
	case "service":
		return SERVICE
	case "motorway_link":
		return MOTORWAY_LINK
	case "trunk_link":
		return TRUNK_LINK
	case "primary_link":
		return PRIMARY_LINK
	case "secondary_link":
		return SECONDARY_LINK
	case "tertiary_link":
		return TERTIARY_LINK
	case "living_street":
		return LIVING_STREET
	case "road":
		return ROAD
	case "track":
		return TRACK
	case "motorroad":
		return MOTORROAD
	case "footway", "cycleway", "path", "pedestrian", "steps", "bridleway":
		return FOOTWAY
	default:
		return UNKNOWN
	}
}

// DefaultHighwaySpeed. free-flow speed in m/s when a way carries no maxspeed tag.
func DefaultHighwaySpeed(hw OsmHighwayType) float64 {
	var kmh float64
	switch hw {
	case MOTORWAY, MOTORROAD:
		kmh = 100
	case TRUNK:
		kmh = 80
	case PRIMARY:
		kmh = 65
	case SECONDARY:
		kmh = 55
	case TERTIARY:
		kmh = 45
	case MOTORWAY_LINK, TRUNK_LINK, PRIMARY_LINK, SECONDARY_LINK, TERTIARY_LINK:
		kmh = 40
	case RESIDENTIAL, UNCLASSIFIED, ROAD:
		kmh = 30
	case SERVICE, TRACK:
		kmh = 20
	case LIVING_STREET:
		kmh = 10
	case FOOTWAY:
		kmh = 5
	default:
		kmh = 30
	}
	return kmh / 3.6
}

// HighwayPriority. netconvert-like priority derived from the highway class (higher is more important).
func HighwayPriority(hw OsmHighwayType) int {
	switch hw {
	case MOTORWAY, MOTORROAD:
		return 13
	case TRUNK:
		return 12
	case PRIMARY:
		return 11
	case SECONDARY:
		return 10
	case TERTIARY:
		return 9
	case MOTORWAY_LINK, TRUNK_LINK, PRIMARY_LINK:
		return 8
	case SECONDARY_LINK, TERTIARY_LINK:
		return 7
	case UNCLASSIFIED, RESIDENTIAL, ROAD:
		return 4
	case LIVING_STREET:
		return 3
	case SERVICE, TRACK:
		return 2
	default:
		return 1
	}
}
