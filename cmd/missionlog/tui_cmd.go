package main

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"time"

	"github.com/spf13/cobra"

	"github.com/fentz26/missionlog/internal/api"
	"github.com/fentz26/missionlog/internal/logging"
	"github.com/fentz26/missionlog/internal/tui"
)

var tuiOwner string

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive history viewer",
	RunE:  runTUI,
}

func init() {
	tuiCmd.Flags().StringVar(&tuiOwner, "owner", "", "Only show results for this client")
}

func runTUI(cmd *cobra.Command, args []string) error {
	// The viewer owns the terminal; keep log lines off it.
	logger = logging.Nop()

	// A local API server that is not running yet gets started in the background.
	if cfg.APIAddr != "" && isLoopback(cfg.APIAddr) && !isServerRunning(cfg.APIAddr) {
		fmt.Println("⚡ missionlog server not running. Starting background service...")
		if err := startServer(cfg.APIAddr); err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
	}

	provider, closeFn, err := openProvider()
	if err != nil {
		return err
	}
	defer closeFn()

	p := viewParams(tuiOwner, "all", "all", "", "")
	app := tui.New(provider, p.OwnerID, p)
	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

func isServerRunning(addr string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	_, err := api.NewClient(addr).Health(ctx)
	return err == nil
}

func isLoopback(addr string) bool {
	u, err := url.Parse(addr)
	if err != nil {
		return false
	}
	host := u.Hostname()
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func startServer(addr string) error {
	exe, err := os.Executable()
	if err != nil {
		return err
	}

	u, err := url.Parse(addr)
	if err != nil {
		return err
	}

	cmd := exec.Command(exe, "serve", "--config", configPath, "--db", cfg.DBPath, "--listen", u.Host)
	// Detach process so it survives TUI exit
	configureServerProc(cmd)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil

	if err := cmd.Start(); err != nil {
		return err
	}

	fmt.Print("   Waiting for server...")
	for i := 0; i < 20; i++ { // Wait up to 5 seconds
		if isServerRunning(addr) {
			fmt.Println(" Done.")
			return nil
		}
		time.Sleep(250 * time.Millisecond)
		fmt.Print(".")
	}
	fmt.Println(" Timeout!")
	return fmt.Errorf("server started but API not reachable at %s", addr)
}
