// Command dtrackprobe is a thin collaborator exercising the dtracksdk
// facade from the command line: connect, print measurement snapshots as
// they arrive, and optionally bridge a Flystick's serial companion
// diagnostic channel into the same log. It is reference tooling, not
// part of the SDK's public API.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"tailscale.com/tsweb"

	"github.com/banshee-data/dtracksdk"
	"github.com/banshee-data/dtracksdk/internal/passthrough"
	"github.com/banshee-data/dtracksdk/internal/serialmux"
	"github.com/banshee-data/dtracksdk/internal/version"
)

func main() {
	connStr := flag.String("conn", "5000", "connection string: <port> | <multicast-ip>:<port> | <host>:<port> | <host>:<port>:fw")
	passthroughPort := flag.String("passthrough", "", "optional serial port for a Flystick's diagnostic companion channel; \"mock\" plays back a canned diagnostic line with no hardware attached")
	passthroughBaud := flag.Int("passthrough-baud", 0, "override the passthrough port's baud rate (0 keeps the default: 115200 for the diagnostic channel, 19200 with -passthrough-raw)")
	passthroughRaw := flag.Bool("passthrough-raw", false, "treat -passthrough as a bare serial connection instead of the Flystick diagnostic-channel framing (no command write-queue)")
	debugAddr := flag.String("debug-addr", "", "if set, serve a /debug/ diagnostics mux on this address (e.g. localhost:8080)")
	showVersion := flag.Bool("version", false, "print the build version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("dtrackprobe %s (commit %s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}

	if err := run(*connStr, *passthroughPort, *passthroughBaud, *passthroughRaw, *debugAddr); err != nil {
		log.Fatal(err)
	}
}

func run(connStr, passthroughPort string, passthroughBaud int, passthroughRaw bool, debugAddr string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	session, err := dtracksdk.NewSession(connStr)
	if err != nil {
		return fmt.Errorf("dtrackprobe: %w", err)
	}
	defer session.Close()

	log.Printf("dtrackprobe %s: session %s connected (%s)", version.Version, session.ID, connStr)

	var mux *http.ServeMux
	var debug *tsweb.DebugHandler
	if debugAddr != "" {
		mux = http.NewServeMux()
		debug = tsweb.Debugger(mux)
		attachSessionDebugRoutes(session, debug)
	}

	if passthroughPort != "" {
		if err := runPassthrough(ctx, passthroughPort, passthroughBaud, passthroughRaw, debug); err != nil {
			log.Printf("dtrackprobe: passthrough: %v", err)
		}
	}

	if mux != nil {
		go serveDebug(mux, debugAddr)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		snap, err := session.Receive()
		if err != nil {
			log.Printf("dtrackprobe: receive: %v (lastDataError=%s)", err, session.LastDataError())
			continue
		}
		log.Printf("dtrackprobe: frame %d: %d bodies, %d markers, %d hands",
			snap.FrameCounter, len(snap.StandardBodies), len(snap.SingleMarkers), len(snap.FingertrackingHands))
	}
}

// runPassthrough opens the Flystick serial companion channel and folds
// its lines into the process log. portName selects one of three modes:
// "mock" plays back a canned diagnostic line with no hardware attached
// (for demos and smoke-testing the admin routes); otherwise, raw opens
// a bare serial.Port via serialmux.NewRealSerialMux (no command
// write-queue, no Flystick-specific framing); the default opens a
// passthrough.FlystickSerialPort, the diagnostic-channel framing a real
// Flystick companion link uses. When debug is non-nil, it also attaches
// the passthrough's own admin routes (manual command injection, line
// tail) alongside the session's.
func runPassthrough(ctx context.Context, portName string, baud int, raw bool, debug *tsweb.DebugHandler) error {
	pmux, err := openPassthroughMux(portName, baud, raw)
	if err != nil {
		return err
	}

	go func() {
		if err := pmux.Monitor(ctx); err != nil {
			log.Printf("dtrackprobe: passthrough monitor stopped: %v", err)
		}
	}()

	if debug != nil {
		pmux.AttachAdminRoutes(debug)
	}

	id, lines := pmux.Subscribe()
	go func() {
		defer pmux.Unsubscribe(id)
		for {
			select {
			case line, ok := <-lines:
				if !ok {
					return
				}
				log.Printf("dtrackprobe: passthrough: %s", line)
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// openPassthroughMux picks the passthrough mode described by portName
// and raw, and returns it as a serialmux.SerialMuxInterface so the
// caller doesn't need to care which concrete SerialMux[T] instantiation
// backs it.
func openPassthroughMux(portName string, baud int, raw bool) (serialmux.SerialMuxInterface, error) {
	if portName == "mock" {
		return serialmux.NewMockSerialMux([]byte("flystick1 battery 87 button 0\n")), nil
	}

	if raw {
		opts := serialmux.PortOptions{}
		if baud > 0 {
			opts.BaudRate = baud
		}
		mux, err := serialmux.NewRealSerialMux(portName, opts)
		if err != nil {
			return nil, err
		}
		return mux, nil
	}

	var opts []serialmux.PortOptions
	if baud > 0 {
		opts = append(opts, serialmux.PortOptions{BaudRate: baud, DataBits: 8, StopBits: 1, Parity: "N"})
	}
	port, err := passthrough.NewFlystickSerialPort(portName, opts...)
	if err != nil {
		return nil, err
	}
	return serialmux.NewSerialMux[*passthrough.FlystickSerialPort](port), nil
}

// attachSessionDebugRoutes exposes the session's current snapshot and
// metrics as JSON on debug.
func attachSessionDebugRoutes(session *dtracksdk.Session, debug *tsweb.DebugHandler) {
	debug.HandleSilentFunc("snapshot", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(session.Current())
	})
	debug.HandleSilentFunc("metrics", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(session.Metrics())
	})
}

// serveDebug serves mux, the same localhost/Tailscale-only admin
// pattern serialmux uses for its own routes.
func serveDebug(mux *http.ServeMux, addr string) {
	log.Printf("dtrackprobe: debug mux listening on %s/debug/", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Printf("dtrackprobe: debug server: %v", err)
	}
}
