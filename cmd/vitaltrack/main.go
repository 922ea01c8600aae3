package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vitaltrack/vitaltrack/client"
	"github.com/vitaltrack/vitaltrack/client/tokenstore"
)

var apiURL string
var tokenDB string
var debug bool

// commandTimeout bounds a whole command, retries and wake-up waits included.
const commandTimeout = 2 * time.Minute

func main() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "vitaltrack",
		Short:         "Command-line client for the VitalTrack health API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
			log.Logger = log.Output(zerolog.ConsoleWriter{
				Out:        cmd.ErrOrStderr(),
				TimeFormat: "2006-01-02 15:04:05",
				NoColor:    true,
			})

			if debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
				log.Debug().Msg("debug logging enabled")
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Base URL of the VitalTrack API (default $VITALTRACK_API_URL or "+client.DefaultBaseURL+")")
	rootCmd.PersistentFlags().StringVar(&tokenDB, "token-db", "", "Path of the session database (default $VITALTRACK_TOKEN_DB or ~/.vitaltrack/session.db)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable verbose debug output")

	rootCmd.AddCommand(newPingCmd())
	rootCmd.AddCommand(newRegisterCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newProfileCmd())
	rootCmd.AddCommand(newMedsCmd())
	rootCmd.AddCommand(newRecordsCmd())
	rootCmd.AddCommand(newDevServerCmd())

	return rootCmd
}

// session is a client plus the token store it owns.
type session struct {
	*client.Client
	store *tokenstore.Store
}

func (s *session) Close() {
	_ = s.Client.Close()
	_ = s.store.Close()
}

// openSession builds a client from the environment, with flags taking
// precedence, and reports connection flips on stderr.
func openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := client.LoadConfig()
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
	}
	if tokenDB != "" {
		cfg.TokenDB = tokenDB
	}
	if debug {
		cfg.Debug = true
	}

	store, err := tokenstore.Open(cfg.TokenDB)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	c, err := client.NewFromConfig(cfg, client.WithTokenStore(store), client.WithLogger(log.Logger))
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	stderr := cmd.ErrOrStderr()
	c.OnConnectionChange(func(connected bool) {
		if connected {
			fmt.Fprintln(stderr, "connection restored")
		} else {
			fmt.Fprintln(stderr, "connection lost")
		}
	})

	log.Debug().Str("api_url", cfg.APIURL).Str("token_db", cfg.TokenDB).Msg("session opened")
	return &session{Client: c, store: store}, nil
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

func newPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Wake the backend and report whether it is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			res := s.WakeUpServer(ctx)
			if !res.OK {
				return fmt.Errorf("backend unreachable at %s: %w", s.BaseURL(), res.Err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is up (%s)\n", s.BaseURL(), res.Elapsed.Round(time.Millisecond))
			return nil
		},
	}
}

func newRegisterCmd() *cobra.Command {
	var req client.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and start a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			auth, err := s.Register(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s\n", auth.User.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password (required)")
	cmd.Flags().StringVar(&req.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&req.DateOfBirth, "dob", "", "Date of birth, YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newLoginCmd() *cobra.Command {
	var req client.LoginRequest

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			start := time.Now()
			auth, err := s.Login(ctx, req)
			if err != nil {
				if client.IsUnauthorized(err) {
					return errors.New("invalid email or password")
				}
				return err
			}
			log.Debug().Str("email", req.Email).Dur("elapsed", time.Since(start)).Msg("login completed")

			name := auth.User.Email
			if auth.User.Name != "" {
				name = auth.User.Name
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", name)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password (required)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newProfileCmd() *cobra.Command {
	var name, dob string

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update the logged-in user's profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			var user *client.User
			if name != "" || dob != "" {
				user, err = s.UpdateProfile(ctx, client.UpdateProfileRequest{Name: name, DateOfBirth: dob})
			} else {
				user, err = s.GetProfile(ctx)
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), user)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New display name")
	cmd.Flags().StringVar(&dob, "dob", "", "New date of birth, YYYY-MM-DD")

	return cmd
}
