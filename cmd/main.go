package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"weeksum/internal/export"
	"weeksum/internal/llm"
	"weeksum/internal/models"
	"weeksum/internal/msgraph"
	"weeksum/internal/period"
	"weeksum/internal/report"
	"weeksum/internal/store"
	"weeksum/internal/web"
)

func main() {
	// Load .env file first, but don't error if it doesn't exist.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "weeksum",
		Usage: "Generate a weekly work summary from a Teams calendar.",
		Commands: []*cli.Command{
			summarizeCommand(),
			loginCommand(),
			exportCommand(),
			serveCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

func summarizeCommand() *cli.Command {
	return &cli.Command{
		Name:  "summarize",
		Usage: "Run the summary pipeline for one employee and print the result.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Usage: "Mailbox (and employee key) to summarize.", Required: true},
			&cli.StringFlag{Name: "period", Usage: "Reporting window: last-7-days, current-week or previous-week. Prompts when omitted."},
			&cli.StringFlag{Name: "today", Usage: "Resolve the window against this date (2006-01-02) instead of the wall clock."},
			&cli.StringFlag{Name: "name", Usage: "Employee name when no database is configured."},
			&cli.StringFlag{Name: "role", Usage: "Employee role when no database is configured."},
			&cli.StringFlag{Name: "department", Usage: "Employee department when no database is configured."},
		},
		Action: func(c *cli.Context) error {
			logger := setupLogger(os.Getenv("LOG_LEVEL"))

			window, err := resolveWindow(c)
			if err != nil {
				return err
			}
			comparison := window.Previous()
			fmt.Printf("Reporting window:  %s .. %s\n", window.Start.Format("2006-01-02"), window.End.Format("2006-01-02"))
			fmt.Printf("Comparison window: %s .. %s\n", comparison.Start.Format("2006-01-02"), comparison.End.Format("2006-01-02"))

			person, commitments, err := resolveProfile(c, logger, window)
			if err != nil {
				return err
			}

			reporter, err := buildReporter(logger)
			if err != nil {
				return err
			}

			result, err := reporter.Run(c.Context, person, window, commitments)
			if err != nil {
				return fmt.Errorf("summary pipeline failed: %w", err)
			}

			fmt.Println("\n==== RAW MODEL OUTPUT ====")
			fmt.Println(result.Raw)
			if result.Parsed != nil {
				if pretty, err := json.MarshalIndent(result.Parsed, "", "  "); err == nil {
					fmt.Println("\n==== PARSED JSON ====")
					fmt.Println(string(pretty))
				}
			}
			return nil
		},
	}
}

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Check your credentials against the people database.",
		Action: func(c *cli.Context) error {
			logger := setupLogger(os.Getenv("LOG_LEVEL"))

			dbPath := os.Getenv("DATABASE_PATH")
			if dbPath == "" {
				return fmt.Errorf("DATABASE_PATH environment variable not set")
			}
			st, err := store.Open(dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			reader := bufio.NewReader(os.Stdin)
			fmt.Print("Email: ")
			email, _ := reader.ReadString('\n')
			fmt.Print("Password: ")
			password, _ := reader.ReadString('\n')

			person, err := st.Authenticate(c.Context, strings.TrimSpace(email), strings.TrimSpace(password))
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			logger.Info("Login succeeded", "email", person.Email)
			fmt.Printf("User: %s | Department: %s | Role: %s\n", person.Name, person.Department, person.Position)
			return nil
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write the window's events to an iCalendar file.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Usage: "Mailbox to export.", Required: true},
			&cli.StringFlag{Name: "period", Value: string(period.CurrentWeek), Usage: "Reporting window: last-7-days, current-week or previous-week."},
			&cli.StringFlag{Name: "today", Usage: "Resolve the window against this date (2006-01-02)."},
			&cli.StringFlag{Name: "out", Value: "events.ics", Usage: "Output file path."},
			&cli.BoolFlag{Name: "upload", Usage: "Also publish the file to the WEBDAV_URL collection."},
		},
		Action: func(c *cli.Context) error {
			logger := setupLogger(os.Getenv("LOG_LEVEL"))

			window, err := resolveWindow(c)
			if err != nil {
				return err
			}
			source, err := buildGraphSource(logger)
			if err != nil {
				return err
			}
			loc, err := reportLocation()
			if err != nil {
				return err
			}

			email := strings.ToLower(strings.TrimSpace(c.String("email")))
			raw, err := source.CalendarView(c.Context, email, window)
			if err != nil {
				return fmt.Errorf("failed to fetch calendar events: %w", err)
			}

			identity := msgraph.Identity{Email: email, DisplayName: email, PrincipalName: email}
			events := report.Canonicalize(msgraph.Normalize(raw, identity), loc)
			if len(events) == 0 {
				logger.Info("No events in the window, nothing to export", "email", email)
				return nil
			}

			cal := export.BuildCalendar(events)
			out := c.String("out")
			if err := export.WriteFile(out, cal); err != nil {
				return err
			}
			logger.Info("Wrote calendar export", "file", out, "events", len(events))

			if c.Bool("upload") {
				davURL := os.Getenv("WEBDAV_URL")
				if davURL == "" {
					return fmt.Errorf("WEBDAV_URL environment variable not set")
				}
				uploader, err := export.NewUploader(logger, davURL, os.Getenv("WEBDAV_USERNAME"), os.Getenv("WEBDAV_PASSWORD"))
				if err != nil {
					return err
				}
				if err := uploader.Upload(c.Context, filepath.Base(out), cal); err != nil {
					return fmt.Errorf("failed to upload calendar: %w", err)
				}
			}
			return nil
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve login and summary generation over HTTP.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "port", Usage: "Port to listen on. Defaults to the PORT environment variable or 8080."},
		},
		Action: func(c *cli.Context) error {
			logger := setupLogger(os.Getenv("LOG_LEVEL"))

			dbPath := os.Getenv("DATABASE_PATH")
			if dbPath == "" {
				return fmt.Errorf("DATABASE_PATH environment variable not set")
			}
			st, err := store.Open(dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			reporter, err := buildReporter(logger)
			if err != nil {
				return err
			}

			port := c.String("port")
			if port == "" {
				port = os.Getenv("PORT")
			}
			if port == "" {
				port = "8080"
			}

			server := web.NewServer(logger, st, reporter)
			logger.Info("Starting HTTP server", "port", port)
			return server.Router().Run(":" + port)
		},
	}
}

// resolveWindow picks the reporting window from the --period flag, falling
// back to the interactive menu, and resolves it against --today or now.
func resolveWindow(c *cli.Context) (period.Period, error) {
	choice := c.String("period")
	if choice == "" {
		var err error
		choice, err = promptPeriod()
		if err != nil {
			return period.Period{}, err
		}
	}

	sel, err := period.ParseSelector(choice)
	if err != nil {
		return period.Period{}, err
	}

	today := time.Now()
	if flagToday := c.String("today"); flagToday != "" {
		today, err = time.Parse("2006-01-02", flagToday)
		if err != nil {
			return period.Period{}, fmt.Errorf("invalid --today value %q: %w", flagToday, err)
		}
	}

	return period.Resolve(sel, today)
}

// promptPeriod shows the numbered period menu on stdin.
func promptPeriod() (string, error) {
	fmt.Println("Choose the period:")
	fmt.Println("1 - Last 7 days")
	fmt.Println("2 - This week (Mon-Fri)")
	fmt.Println("3 - Previous week (Mon-Fri)")
	fmt.Print("Type 1, 2 or 3: ")

	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	switch strings.TrimSpace(answer) {
	case "1":
		return string(period.LastSevenDays), nil
	case "2":
		return string(period.CurrentWeek), nil
	case "3":
		return string(period.PreviousWeek), nil
	}
	return "", fmt.Errorf("invalid period option %q", strings.TrimSpace(answer))
}

// resolveProfile loads the employee profile and the commitment text,
// preferring the database when DATABASE_PATH is configured. Profile flags
// override the stored fields.
func resolveProfile(c *cli.Context, logger *slog.Logger, window period.Period) (models.Person, string, error) {
	email := strings.ToLower(strings.TrimSpace(c.String("email")))
	person := models.Person{
		Email:      email,
		Name:       c.String("name"),
		Position:   c.String("role"),
		Department: c.String("department"),
	}
	commitments := store.RenderCommitments(nil)

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		logger.Info("No DATABASE_PATH configured, using profile flags only")
		return person, commitments, nil
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return models.Person{}, "", err
	}
	defer st.Close()

	stored, err := st.PersonByEmail(c.Context, email)
	if err != nil {
		return models.Person{}, "", err
	}
	person = stored
	if v := c.String("name"); v != "" {
		person.Name = v
	}
	if v := c.String("role"); v != "" {
		person.Position = v
	}
	if v := c.String("department"); v != "" {
		person.Department = v
	}

	rows, err := st.CommitmentsFor(c.Context, email, window.Start)
	if err != nil {
		return models.Person{}, "", err
	}
	logger.Info("Loaded commitments", "count", len(rows))
	return person, store.RenderCommitments(rows), nil
}

// buildGraphSource wires the Graph calendar client from the environment.
func buildGraphSource(logger *slog.Logger) (*msgraph.Client, error) {
	tenantID := os.Getenv("TENANT_ID")
	clientID := os.Getenv("CLIENT_ID")
	clientSecret := os.Getenv("CLIENT_SECRET")
	if tenantID == "" || clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("TENANT_ID, CLIENT_ID and CLIENT_SECRET environment variables must be set")
	}

	tokens := msgraph.NewTokenProvider(logger, tenantID, clientID, clientSecret)
	return msgraph.NewClient(logger, tokens), nil
}

// buildReporter wires the full pipeline from the environment.
func buildReporter(logger *slog.Logger) (*report.Reporter, error) {
	source, err := buildGraphSource(logger)
	if err != nil {
		return nil, err
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}

	loc, err := reportLocation()
	if err != nil {
		return nil, err
	}

	generator := llm.NewGenerator(logger, llm.NewOpenAIClient(apiKey))
	return report.NewReporter(logger, source, generator, loc), nil
}

// reportLocation loads the timezone summaries are rendered in. Defaults to
// Sao Paulo civil time unless REPORT_TIMEZONE overrides it.
func reportLocation() (*time.Location, error) {
	tzStr := os.Getenv("REPORT_TIMEZONE")
	if tzStr == "" {
		tzStr = "America/Sao_Paulo"
	}
	loc, err := time.LoadLocation(tzStr)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone '%s': %w", tzStr, err)
	}
	return loc, nil
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}
