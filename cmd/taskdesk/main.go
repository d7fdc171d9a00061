package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/tgienger/taskdesk/internal/api"
	"github.com/tgienger/taskdesk/internal/config"
	"github.com/tgienger/taskdesk/internal/logging"
	"github.com/tgienger/taskdesk/internal/session"
	"github.com/tgienger/taskdesk/internal/ui"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "taskdesk",
	Short: "Terminal client for the taskdesk study planner",
	Long: `taskdesk is a terminal client for the taskdesk study planner.
Run it without arguments to open the dashboard. Log in first with
'taskdesk login'.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate against the taskdesk server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLogin()
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := session.Open()
		if err != nil {
			return fmt.Errorf("open session store: %w", err)
		}
		defer store.Close()

		if err := store.ClearCredentials(); err != nil {
			return fmt.Errorf("clear credentials: %w", err)
		}
		fmt.Println("Logged out.")
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		fmt.Printf("server.url: %s\n", cfg.Server.URL)
		fmt.Printf("server.timeout_seconds: %d\n", cfg.Server.TimeoutSeconds)
		fmt.Printf("notes.autosave_delay_ms: %d\n", int(cfg.AutosaveDelay().Milliseconds()))
		fmt.Printf("logging.level: %s\n", cfg.Logging.Level)
		fmt.Printf("logging.file: %s\n", cfg.LogFile())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(configCmd)
}

func runTUI() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logging.New(cfg.LogFile(), cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer log.Close()

	store, err := session.Open()
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer store.Close()

	token, err := store.Token()
	if err != nil {
		return fmt.Errorf("read stored token: %w", err)
	}
	if token == "" {
		return fmt.Errorf("not logged in; run 'taskdesk login' first")
	}

	client := api.New(cfg.Server.URL,
		api.WithToken(token),
		api.WithTimeout(cfg.Timeout()),
		api.WithLogger(log),
	)

	app := ui.NewApp(client, store, cfg, log)
	p := tea.NewProgram(app, tea.WithAltScreen())
	app.SetSend(p.Send)

	log.Info("taskdesk starting", "version", version, "server", cfg.Server.URL)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run application: %w", err)
	}
	return nil
}

func runLogin() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Email: ")
	email, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("read email: %w", err)
	}
	email = strings.TrimSpace(email)

	fmt.Print("Password: ")
	password, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	password = strings.TrimSpace(password)

	client := api.New(cfg.Server.URL, api.WithTimeout(cfg.Timeout()))
	resp, err := client.Login(context.Background(), email, password)
	if err != nil {
		if api.IsUnauthorized(err) {
			return fmt.Errorf("invalid email or password")
		}
		return fmt.Errorf("login: %w", err)
	}

	store, err := session.Open()
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer store.Close()

	if err := store.SetCredentials(email, resp.AccessToken); err != nil {
		return fmt.Errorf("store credentials: %w", err)
	}

	fmt.Printf("Logged in as %s.\n", email)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
