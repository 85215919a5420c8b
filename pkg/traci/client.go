package traci

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"os/exec"
	"sync"

	"github.com/lintang-b-s/trafficrouter/pkg/util"
	"go.uber.org/zap"
)

// Client speaks the TraCI protocol over one tcp connection. calls are serialized; the protocol is strictly
// request/response.
type Client struct {
	conn   net.Conn
	logger *zap.Logger
	mu     sync.Mutex

	process *exec.Cmd // set when the simulator was launched by Start
	closed  bool
}

func NewClient(conn net.Conn, logger *zap.Logger) *Client {
	return &Client{conn: conn, logger: logger}
}

// Version of the TraCI api and the simulator identification string.
type Version struct {
	API        int32
	Identifier string
}

func (c *Client) GetVersion() (Version, error) {
	r, err := c.query(CMD_GETVERSION, nil)
	if err != nil {
		return Version{}, err
	}
	cmdID, _ := r.readCommandHeader()
	v := Version{API: r.readInt(), Identifier: r.readString()}
	if err := c.checkResponse(r, CMD_GETVERSION, cmdID); err != nil {
		return Version{}, err
	}
	return v, nil
}

// SimulationStep advances the simulation by one step.
func (c *Client) SimulationStep() error {
	w := &writer{}
	w.writeDouble(0)
	r, err := c.query(CMD_SIMSTEP, w.bytes())
	if err != nil {
		return err
	}
	if n := r.readInt(); r.err == nil && n != 0 {
		// nothing is ever subscribed
		c.logger.Warn("ignoring unexpected subscription results", zap.Int32("count", n))
	}
	return c.wrapReadErr(r, "simulation step")
}

func (c *Client) DepartedIDList() ([]string, error) {
	r, err := c.getVariable(CMD_GET_SIM_VARIABLE, VAR_DEPARTED_VEHICLES_IDS, "", TYPE_STRINGLIST)
	if err != nil {
		return nil, err
	}
	ids := r.readStringList()
	return ids, c.wrapReadErr(r, "departed vehicles")
}

// MinExpectedNumber vehicles still in the network plus vehicles waiting to depart.
func (c *Client) MinExpectedNumber() (int, error) {
	r, err := c.getVariable(CMD_GET_SIM_VARIABLE, VAR_MIN_EXPECTED_VEHICLES, "", TYPE_INTEGER)
	if err != nil {
		return 0, err
	}
	n := r.readInt()
	return int(n), c.wrapReadErr(r, "min expected number")
}

// SimulationTime current simulation time in seconds.
func (c *Client) SimulationTime() (float64, error) {
	r, err := c.getVariable(CMD_GET_SIM_VARIABLE, VAR_TIME, "", TYPE_DOUBLE)
	if err != nil {
		return 0, err
	}
	t := r.readDouble()
	return t, c.wrapReadErr(r, "simulation time")
}

// VehicleRoute the edges of the route the vehicle currently follows.
func (c *Client) VehicleRoute(vehicleID string) ([]string, error) {
	r, err := c.getVariable(CMD_GET_VEHICLE_VARIABLE, VAR_EDGES, vehicleID, TYPE_STRINGLIST)
	if err != nil {
		return nil, err
	}
	edges := r.readStringList()
	return edges, c.wrapReadErr(r, "route of vehicle "+vehicleID)
}

// EdgeLastStepMeanSpeed mean speed (m/s) of the vehicles on the edge during the last step.
func (c *Client) EdgeLastStepMeanSpeed(edgeID string) (float64, error) {
	r, err := c.getVariable(CMD_GET_EDGE_VARIABLE, LAST_STEP_MEAN_SPEED, edgeID, TYPE_DOUBLE)
	if err != nil {
		return 0, err
	}
	v := r.readDouble()
	return v, c.wrapReadErr(r, "mean speed of edge "+edgeID)
}

func (c *Client) SetVehicleRoute(vehicleID string, edges []string) error {
	w := &writer{}
	w.writeUbyte(VAR_ROUTE)
	w.writeString(vehicleID)
	w.writeUbyte(TYPE_STRINGLIST)
	w.writeStringList(edges)
	_, err := c.query(CMD_SET_VEHICLE_VARIABLE, w.bytes())
	return err
}

// Close ends the session, closes the connection and waits for a launched simulator to exit. safe to call twice.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	_, err := c.query(CMD_CLOSE, nil)

	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	if cerr := c.conn.Close(); err == nil && cerr != nil {
		err = util.WrapErrorf(cerr, util.ErrSimulatorConnection, "closing traci connection")
	}
	if c.process != nil {
		if werr := c.process.Wait(); werr != nil {
			c.logger.Warn("simulator exited with error", zap.Error(werr))
		}
	}
	return err
}

func (c *Client) getVariable(domain, variable byte, objectID string, valueType byte) (*reader, error) {
	w := &writer{}
	w.writeUbyte(variable)
	w.writeString(objectID)
	r, err := c.query(domain, w.bytes())
	if err != nil {
		return nil, err
	}

	cmdID, _ := r.readCommandHeader()
	gotVar := r.readUbyte()
	gotObj := r.readString()
	if err := c.checkResponse(r, domain+RESPONSE_OFFSET, cmdID); err != nil {
		return nil, err
	}
	if gotVar != variable || gotObj != objectID {
		return nil, util.WrapErrorf(nil, util.ErrSimulatorConnection,
			"traci response for variable 0x%02x of %q, asked 0x%02x of %q", gotVar, gotObj, variable, objectID)
	}
	r.expectType(valueType)
	return r, c.wrapReadErr(r, fmt.Sprintf("variable 0x%02x", variable))
}

// query sends one command and returns the rest of the response after a successful status.
func (c *Client) query(cmdID byte, content []byte) (*reader, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, util.WrapErrorf(nil, util.ErrSimulatorConnection, "traci connection already closed")
	}

	w := &writer{}
	w.writeCommand(cmdID, content)
	body := w.bytes()

	msg := make([]byte, 4+len(body))
	binary.BigEndian.PutUint32(msg, uint32(4+len(body)))
	copy(msg[4:], body)
	if _, err := c.conn.Write(msg); err != nil {
		return nil, util.WrapErrorf(err, util.ErrSimulatorConnection, "sending traci command 0x%02x", cmdID)
	}

	var header [4]byte
	if _, err := io.ReadFull(c.conn, header[:]); err != nil {
		return nil, util.WrapErrorf(err, util.ErrSimulatorConnection, "reading traci response 0x%02x", cmdID)
	}
	total := int(binary.BigEndian.Uint32(header[:]))
	if total < 4 {
		return nil, util.WrapErrorf(nil, util.ErrSimulatorConnection, "invalid traci message length %d", total)
	}
	resp := make([]byte, total-4)
	if _, err := io.ReadFull(c.conn, resp); err != nil {
		return nil, util.WrapErrorf(err, util.ErrSimulatorConnection, "reading traci response 0x%02x", cmdID)
	}

	r := newReader(resp)
	statusCmd, _ := r.readCommandHeader()
	result := r.readUbyte()
	description := r.readString()
	if r.err != nil {
		return nil, util.WrapErrorf(r.err, util.ErrSimulatorConnection, "reading traci status 0x%02x", cmdID)
	}
	if statusCmd != cmdID {
		return nil, util.WrapErrorf(nil, util.ErrSimulatorConnection,
			"traci status for command 0x%02x, expected 0x%02x", statusCmd, cmdID)
	}
	if result != RTYPE_OK {
		return nil, util.WrapErrorf(nil, util.ErrSimulatorCommand,
			"traci command 0x%02x failed (0x%02x): %s", cmdID, result, description)
	}
	return r, nil
}

func (c *Client) checkResponse(r *reader, want, got byte) error {
	if err := c.wrapReadErr(r, "response"); err != nil {
		return err
	}
	if got != want {
		return util.WrapErrorf(nil, util.ErrSimulatorConnection, "traci response 0x%02x, expected 0x%02x", got, want)
	}
	return nil
}

func (c *Client) wrapReadErr(r *reader, what string) error {
	if r.err == nil {
		return nil
	}
	return util.WrapErrorf(r.err, util.ErrSimulatorConnection, "decoding traci %s", what)
}
