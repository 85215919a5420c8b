package traci

import (
	"context"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/lintang-b-s/trafficrouter/pkg/util"
	"go.uber.org/zap"
)

type LaunchOptions struct {
	SumoHome        string
	GUI             bool
	ConfigFile      string
	Port            int // 0 picks a free port
	ConnectRetries  int
	ConnectInterval time.Duration
	ExtraArgs       []string
}

// BinaryPath $SUMO_HOME/bin/sumo or sumo-gui.
func BinaryPath(sumoHome string, gui bool) string {
	name := SUMO_BINARY
	if gui {
		name = SUMO_GUI_BINARY
	}
	return filepath.Join(sumoHome, "bin", name)
}

// Start launches the simulator with a TraCI server on opts.Port and connects to it.
func Start(ctx context.Context, opts LaunchOptions, logger *zap.Logger) (*Client, error) {
	port := opts.Port
	if port == 0 {
		free, err := freePort()
		if err != nil {
			return nil, util.WrapErrorf(err, util.ErrSimulatorConnection, "finding a free port")
		}
		port = free
	}

	binary := BinaryPath(opts.SumoHome, opts.GUI)
	args := append([]string{"-c", opts.ConfigFile, "--remote-port", strconv.Itoa(port)}, opts.ExtraArgs...)
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	logger.Info("launching simulator", zap.String("binary", binary), zap.Strings("args", args))
	if err := cmd.Start(); err != nil {
		return nil, util.WrapErrorf(err, util.ErrSimulatorConnection, "starting %s", binary)
	}

	addr := net.JoinHostPort(LOCALHOST, strconv.Itoa(port))
	conn, err := dialWithRetry(ctx, addr, opts.ConnectRetries, opts.ConnectInterval, logger)
	if err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return nil, err
	}

	c := NewClient(conn, logger)
	c.process = cmd

	v, err := c.GetVersion()
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	logger.Info("connected to simulator", zap.String("addr", addr), zap.Int32("api", v.API),
		zap.String("identifier", v.Identifier))
	return c, nil
}

// Dial connects to an already running TraCI server.
func Dial(ctx context.Context, addr string, retries int, interval time.Duration, logger *zap.Logger) (*Client, error) {
	conn, err := dialWithRetry(ctx, addr, retries, interval, logger)
	if err != nil {
		return nil, err
	}
	return NewClient(conn, logger), nil
}

func dialWithRetry(ctx context.Context, addr string, retries int, interval time.Duration,
	logger *zap.Logger) (net.Conn, error) {
	if retries <= 0 {
		retries = 1
	}
	var d net.Dialer
	var lastErr error
	for attempt := 1; attempt <= retries; attempt++ {
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err == nil {
			if tcp, ok := conn.(*net.TCPConn); ok {
				_ = tcp.SetNoDelay(true)
			}
			return conn, nil
		}
		lastErr = err
		logger.Debug("simulator not ready yet", zap.String("addr", addr), zap.Int("attempt", attempt))

		select {
		case <-ctx.Done():
			return nil, util.WrapErrorf(ctx.Err(), util.ErrSimulatorConnection, "connecting to %s", addr)
		case <-time.After(interval):
		}
	}
	return nil, util.WrapErrorf(lastErr, util.ErrSimulatorConnection,
		"could not connect to %s after %d attempts", addr, retries)
}

func freePort() (int, error) {
	l, err := net.Listen("tcp", net.JoinHostPort(LOCALHOST, "0"))
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}
