package traci

// command ids
const (
	CMD_GETVERSION           byte = 0x00
	CMD_SIMSTEP              byte = 0x02
	CMD_CLOSE                byte = 0x7F
	CMD_GET_VEHICLE_VARIABLE byte = 0xa4
	CMD_GET_EDGE_VARIABLE    byte = 0xaa
	CMD_GET_SIM_VARIABLE     byte = 0xab
	CMD_SET_VEHICLE_VARIABLE byte = 0xc4

	// a get response carries the request id plus this offset
	RESPONSE_OFFSET byte = 0x10
)

// variable ids
const (
	LAST_STEP_MEAN_SPEED      byte = 0x11
	VAR_EDGES                 byte = 0x54
	VAR_ROUTE                 byte = 0x57
	VAR_TIME                  byte = 0x66
	VAR_DEPARTED_VEHICLES_IDS byte = 0x74
	VAR_MIN_EXPECTED_VEHICLES byte = 0x7d
)

// value types
const (
	TYPE_INTEGER    byte = 0x09
	TYPE_DOUBLE     byte = 0x0B
	TYPE_STRING     byte = 0x0C
	TYPE_STRINGLIST byte = 0x0E
	TYPE_COMPOUND   byte = 0x0F
)

// status results
const (
	RTYPE_OK             byte = 0x00
	RTYPE_NOTIMPLEMENTED byte = 0x01
	RTYPE_ERR            byte = 0xFF
)

const (
	SUMO_BINARY     = "sumo"
	SUMO_GUI_BINARY = "sumo-gui"
	LOCALHOST       = "localhost"
)
