package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/tray"
)

var serveOpts struct {
	addr      string
	db        string
	pluginDir string
	webDir    string
	tray      bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the gesture service and debug page",
	RunE:  serve,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	// The tray must own the main thread on macOS.
	runtime.LockOSThread()

	serveCmd.Flags().StringVar(&serveOpts.addr, "addr", "", "listen address (overrides settings)")
	serveCmd.Flags().StringVar(&serveOpts.db, "db", "", "database path (overrides settings)")
	serveCmd.Flags().StringVar(&serveOpts.pluginDir, "plugins", "", "plugin directory (overrides settings)")
	serveCmd.Flags().StringVar(&serveOpts.webDir, "web", "", "static files for the debug page")
	serveCmd.Flags().BoolVar(&serveOpts.tray, "tray", false, "show a system tray icon")
}

func serve(cmd *cobra.Command, args []string) error {
	fmt.Println("Mudra - Mouse Gesture Recognition")

	settings, err := loadSettings()
	if err != nil {
		return err
	}
	if serveOpts.addr != "" {
		settings.Addr = serveOpts.addr
	}
	if serveOpts.pluginDir != "" {
		settings.PluginDir = serveOpts.pluginDir
	}
	if serveOpts.webDir != "" {
		settings.WebDir = serveOpts.webDir
	}

	st, err := openStore(cmd, settings)
	if err != nil {
		return err
	}
	defer st.Close()

	a, err := app.New(app.Config{
		Store:     st,
		PluginDir: settings.PluginDir,
		Engine:    settings.Engine,
	})
	if err != nil {
		return fmt.Errorf("failed to create app: %w", err)
	}
	if err := a.DiscoverPlugins(); err != nil {
		log.Printf("Failed to discover plugins: %v", err)
	}
	if n, err := a.SeedBindings(); err != nil {
		log.Printf("Failed to seed default bindings: %v", err)
	} else if n > 0 {
		log.Printf("Seeded %d default binding(s)", n)
	}

	webDir := settings.WebDir
	if webDir == "" {
		webDir = findWebDir()
	}
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		App:       a,
		TrailSize: settings.TrailSize,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Starting server on %s\n", settings.Addr)
	if !serveOpts.tray {
		return srv.Run(ctx, settings.Addr)
	}

	t := tray.New(a.IsEnabled())
	t.OnToggle(a.SetEnabled)
	t.OnOpenDebug(func() { openBrowser(debugURL(settings.Addr)) })
	t.OnQuit(stop)
	a.RegisterGestureCallback(func(ev app.Event) {
		t.SetLastGesture(ev.Token, ev.Similarity)
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run(ctx, settings.Addr)
		t.Quit()
	}()
	t.Run()
	stop()
	return <-errCh
}

// findWebDir searches for the web directory in common locations.
// It checks "web", "../web", "../../web" and ~/.mudra/web.
func findWebDir() string {
	for _, p := range []string{"web", "../web", "../../web"} {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if absPath, err := filepath.Abs(p); err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	homeWebDir := filepath.Join(homeDir, ".mudra", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}
	return ""
}

func debugURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/"
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}
