package traci

import (
	"encoding/binary"
	"errors"
	"io"
	"net"
	"strings"
	"testing"

	"github.com/lintang-b-s/trafficrouter/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeSumo answers TraCI requests on the server end of a pipe.
type fakeSumo struct {
	conn       net.Conn
	speeds     map[string]float64
	routes     map[string][]string
	departed   []string
	expected   int32
	setRoutes  map[string][]string
	failOnStep bool
}

func newFakeSumo() *fakeSumo {
	return &fakeSumo{
		speeds:    map[string]float64{"A": 12.5, "B": 0},
		routes:    map[string][]string{"car0": {"A", "D"}},
		departed:  []string{"car0", "car1"},
		expected:  3,
		setRoutes: make(map[string][]string),
	}
}

func (f *fakeSumo) serve(conn net.Conn) {
	defer conn.Close()
	for {
		var header [4]byte
		if _, err := io.ReadFull(conn, header[:]); err != nil {
			return
		}
		body := make([]byte, binary.BigEndian.Uint32(header[:])-4)
		if _, err := io.ReadFull(conn, body); err != nil {
			return
		}
		r := newReader(body)
		cmdID, _ := r.readCommandHeader()

		resp := f.handle(cmdID, r)
		msg := make([]byte, 4+len(resp))
		binary.BigEndian.PutUint32(msg, uint32(4+len(resp)))
		copy(msg[4:], resp)
		if _, err := conn.Write(msg); err != nil {
			return
		}
		if cmdID == CMD_CLOSE {
			return
		}
	}
}

func status(w *writer, cmdID, result byte, description string) {
	s := &writer{}
	s.writeUbyte(result)
	s.writeString(description)
	w.writeCommand(cmdID, s.bytes())
}

func variableResponse(w *writer, domain, variable byte, objectID string, value func(v *writer)) {
	status(w, domain, RTYPE_OK, "")
	content := &writer{}
	content.writeUbyte(variable)
	content.writeString(objectID)
	value(content)
	w.writeCommand(domain+RESPONSE_OFFSET, content.bytes())
}

func (f *fakeSumo) handle(cmdID byte, r *reader) []byte {
	w := &writer{}
	switch cmdID {
	case CMD_GETVERSION:
		status(w, cmdID, RTYPE_OK, "")
		content := &writer{}
		content.writeInt(21)
		content.writeString("SUMO 1.20.0")
		w.writeCommand(CMD_GETVERSION, content.bytes())
	case CMD_SIMSTEP:
		if f.failOnStep {
			status(w, cmdID, RTYPE_ERR, "simulation ended")
			break
		}
		status(w, cmdID, RTYPE_OK, "")
		w.writeInt(0)
	case CMD_GET_SIM_VARIABLE:
		variable := r.readUbyte()
		obj := r.readString()
		switch variable {
		case VAR_DEPARTED_VEHICLES_IDS:
			variableResponse(w, cmdID, variable, obj, func(v *writer) {
				v.writeUbyte(TYPE_STRINGLIST)
				v.writeStringList(f.departed)
			})
		case VAR_MIN_EXPECTED_VEHICLES:
			variableResponse(w, cmdID, variable, obj, func(v *writer) {
				v.writeUbyte(TYPE_INTEGER)
				v.writeInt(f.expected)
			})
		case VAR_TIME:
			variableResponse(w, cmdID, variable, obj, func(v *writer) {
				v.writeUbyte(TYPE_DOUBLE)
				v.writeDouble(42)
			})
		}
	case CMD_GET_VEHICLE_VARIABLE:
		variable := r.readUbyte()
		obj := r.readString()
		route, ok := f.routes[obj]
		if !ok {
			status(w, cmdID, RTYPE_ERR, "Vehicle '"+obj+"' is not known")
			break
		}
		variableResponse(w, cmdID, variable, obj, func(v *writer) {
			v.writeUbyte(TYPE_STRINGLIST)
			v.writeStringList(route)
		})
	case CMD_GET_EDGE_VARIABLE:
		variable := r.readUbyte()
		obj := r.readString()
		variableResponse(w, cmdID, variable, obj, func(v *writer) {
			v.writeUbyte(TYPE_DOUBLE)
			v.writeDouble(f.speeds[obj])
		})
	case CMD_SET_VEHICLE_VARIABLE:
		_ = r.readUbyte()
		obj := r.readString()
		_ = r.readUbyte()
		f.setRoutes[obj] = r.readStringList()
		status(w, cmdID, RTYPE_OK, "")
	case CMD_CLOSE:
		status(w, cmdID, RTYPE_OK, "")
	default:
		status(w, cmdID, RTYPE_NOTIMPLEMENTED, "not implemented")
	}
	return w.bytes()
}

func newTestClient(t *testing.T, f *fakeSumo) *Client {
	t.Helper()
	clientConn, serverConn := net.Pipe()
	done := make(chan struct{})
	go func() {
		f.serve(serverConn)
		close(done)
	}()
	t.Cleanup(func() {
		clientConn.Close()
		<-done
	})
	return NewClient(clientConn, zap.NewNop())
}

func TestClientSession(t *testing.T) {
	f := newFakeSumo()
	c := newTestClient(t, f)

	v, err := c.GetVersion()
	require.NoError(t, err)
	assert.Equal(t, Version{API: 21, Identifier: "SUMO 1.20.0"}, v)

	require.NoError(t, c.SimulationStep())

	ids, err := c.DepartedIDList()
	require.NoError(t, err)
	assert.Equal(t, []string{"car0", "car1"}, ids)

	n, err := c.MinExpectedNumber()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	now, err := c.SimulationTime()
	require.NoError(t, err)
	assert.Equal(t, 42.0, now)

	route, err := c.VehicleRoute("car0")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "D"}, route)

	speed, err := c.EdgeLastStepMeanSpeed("A")
	require.NoError(t, err)
	assert.Equal(t, 12.5, speed)

	require.NoError(t, c.SetVehicleRoute("car0", []string{"A", "C", "D"}))
	require.NoError(t, c.Close())
	assert.Equal(t, []string{"A", "C", "D"}, f.setRoutes["car0"])

	// closed twice is fine, further commands are not
	require.NoError(t, c.Close())
	err = c.SimulationStep()
	assert.True(t, errors.Is(err, util.ErrSimulatorConnection))
}

func TestClientErrorStatus(t *testing.T) {
	f := newFakeSumo()
	c := newTestClient(t, f)

	_, err := c.VehicleRoute("ghost")
	require.Error(t, err)
	assert.True(t, errors.Is(err, util.ErrSimulatorCommand))
	assert.False(t, errors.Is(err, util.ErrSimulatorConnection))
	assert.Contains(t, err.Error(), "Vehicle 'ghost' is not known")

	f.failOnStep = true
	assert.Error(t, c.SimulationStep())
}

func TestClientConnectionLost(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	serverConn.Close()
	c := NewClient(clientConn, zap.NewNop())

	err := c.SimulationStep()
	require.Error(t, err)
	assert.True(t, errors.Is(err, util.ErrSimulatorConnection))
}

func TestWriteCommandExtendedLength(t *testing.T) {
	w := &writer{}
	long := strings.Repeat("x", 300)
	w.writeCommand(CMD_SET_VEHICLE_VARIABLE, []byte(long))

	r := newReader(w.bytes())
	cmdID, length := r.readCommandHeader()
	assert.Equal(t, CMD_SET_VEHICLE_VARIABLE, cmdID)
	assert.Equal(t, 300, length)
	assert.Equal(t, 300, r.remaining())

	short := &writer{}
	short.writeCommand(CMD_SIMSTEP, make([]byte, 8))
	assert.Equal(t, byte(10), short.bytes()[0])
}

func TestReaderTruncated(t *testing.T) {
	w := &writer{}
	w.writeStringList([]string{"A", "B"})
	data := w.bytes()

	r := newReader(data[:len(data)-1])
	r.readStringList()
	assert.ErrorIs(t, r.err, errShortRead)
}

func TestBinaryPath(t *testing.T) {
	assert.Equal(t, "/opt/sumo/bin/sumo", BinaryPath("/opt/sumo", false))
	assert.Equal(t, "/opt/sumo/bin/sumo-gui", BinaryPath("/opt/sumo", true))
}
