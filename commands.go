package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"postbrowser/app/models"
	"postbrowser/app/repositories"
	"postbrowser/app/state"
	"postbrowser/app/transport"
	"postbrowser/app/tui"
	"postbrowser/config"
	"postbrowser/service"
)

// cli carries what every command shares.
type cli struct {
	in         io.Reader
	out        io.Writer
	errOut     io.Writer
	configPath string
	cfg        config.Config
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	c := &cli{in: in, out: out, errOut: errOut}

	root := &cobra.Command{
		Use:           "postbrowser",
		Short:         "Browse users, posts and comments of a remote data source",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			return nil
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "postbrowser.yaml", "path to the YAML config file")

	root.AddCommand(
		c.serveCmd(),
		c.browseCmd(),
		c.dbCmd(),
		c.versionCmd(),
	)
	return root
}

func (c *cli) logger(w io.Writer) (*slog.Logger, func() error, error) {
	return c.cfg.Log.OpenLogger(w)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func (c *cli) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		// Version needs no configuration.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(c.out, "postbrowser version %s\n", CliVersion)
		},
	}
}

func (c *cli) serveCmd() *cobra.Command {
	var seed bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the reference data source over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				c.cfg.Server.Addr = addr
			}
			logger, closeLog, err := c.logger(c.errOut)
			if err != nil {
				return err
			}
			defer closeLog()

			ctx, stop := signalContext()
			defer stop()
			return service.Run(ctx, c.cfg.Server, seed, logger)
		},
	}
	cmd.Flags().String("addr", "", "listen address (overrides server.addr)")
	cmd.Flags().BoolVar(&seed, "seed", false, "load the built-in fixture when the database is empty")
	return cmd
}

func (c *cli) browseCmd() *cobra.Command {
	var userID, postID int
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the data source in the terminal",
		Long: `Browse opens an interactive terminal UI. When standard output is not a
terminal it prints users, or the posts of --user, or the comments of --post.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if url, _ := cmd.Flags().GetString("api"); url != "" {
				c.cfg.Client.BaseURL = url
			}
			interactive := isTerminal(c.out)

			logOut := c.errOut
			if interactive {
				logOut = io.Discard
			}
			logger, closeLog, err := c.logger(logOut)
			if err != nil {
				return err
			}
			defer closeLog()

			client := transport.NewClient(c.cfg.Client.BaseURL, transport.Options{
				Timeout:   c.cfg.Client.RequestTimeout,
				RateLimit: c.cfg.Client.RateLimit,
				Burst:     c.cfg.Client.RateBurst,
				Logger:    logger,
			})
			browser := state.New(repositories.NewHTTPSet(client), state.Options{Logger: logger})

			ctx, stop := signalContext()
			defer stop()
			defer browser.Wait()

			if interactive {
				return tui.Run(ctx, browser)
			}
			return printPlain(ctx, c.out, browser, userID, postID)
		},
	}
	cmd.Flags().String("api", "", "data source base URL (overrides client.base_url)")
	cmd.Flags().IntVar(&userID, "user", 0, "print the posts of this user")
	cmd.Flags().IntVar(&postID, "post", 0, "print the comments of this post (requires --user)")
	return cmd
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// printPlain walks the same selection path as the terminal UI and prints
// the deepest tier asked for.
func printPlain(ctx context.Context, w io.Writer, b *state.Browser, userID, postID int) error {
	b.LoadUsers(ctx)
	b.Wait()
	snap := b.Snapshot()
	if snap.Users.Err != nil {
		return snap.Users.Err
	}
	if userID == 0 {
		for _, u := range snap.Users.Items {
			fmt.Fprintf(w, "%d\t%s\t%s\n", u.ID, u.Name, u.Email)
		}
		return nil
	}

	user, ok := findUser(snap.Users.Items, userID)
	if !ok {
		return fmt.Errorf("user %d not found", userID)
	}
	b.SelectUser(ctx, user)
	b.Wait()
	snap = b.Snapshot()
	if snap.Posts.Err != nil {
		return snap.Posts.Err
	}
	if postID == 0 {
		if snap.Posts.Empty() {
			fmt.Fprintln(w, "No posts yet")
		}
		for _, p := range snap.Posts.Items {
			fmt.Fprintf(w, "%d\t%s\n", p.ID, p.Title)
		}
		return nil
	}

	post, ok := findPost(snap.Posts.Items, postID)
	if !ok {
		return fmt.Errorf("post %d not found for user %d", postID, userID)
	}
	if err := b.SelectPost(ctx, post); err != nil {
		return err
	}
	b.Wait()
	snap = b.Snapshot()
	if snap.Comments.Err != nil {
		return snap.Comments.Err
	}
	fmt.Fprintf(w, "%s\n\n%s\n\n", post.Title, post.Body)
	if snap.Comments.Empty() {
		fmt.Fprintln(w, "No comments yet")
	}
	for _, cm := range snap.Comments.Items {
		fmt.Fprintf(w, "%d\t%s <%s>\t%s\n", cm.ID, cm.Name, cm.Email, cm.Body)
	}
	return nil
}

func findUser(users []models.User, id int) (models.User, bool) {
	for _, u := range users {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

func findPost(posts []models.Post, id int) (models.Post, bool) {
	for _, p := range posts {
		if p.ID == id {
			return p, true
		}
	}
	return models.Post{}, false
}

func (c *cli) dbCmd() *cobra.Command {
	var yes bool
	db := func() service.DB {
		return service.DB{
			Path:      c.cfg.Server.DBPath,
			BackupDir: c.cfg.Server.BackupDir,
			Out:       c.out,
			In:        c.in,
			Yes:       yes,
		}
	}

	cmd := &cobra.Command{
		Use:   "db",
		Short: "Maintain the data source database",
	}
	cmd.PersistentFlags().BoolVarP(&yes, "yes", "y", false, "skip confirmation prompts")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "init",
			Short: "Initialize a new empty database",
			Args:  cobra.NoArgs,
			RunE:  func(cmd *cobra.Command, args []string) error { return db().Init() },
		},
		&cobra.Command{
			Use:   "clean",
			Short: "Remove the database",
			Args:  cobra.NoArgs,
			RunE:  func(cmd *cobra.Command, args []string) error { return db().Clean() },
		},
		&cobra.Command{
			Use:   "seed [fixture.yaml]",
			Short: "Load a fixture, the built-in one by default",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				path := ""
				if len(args) == 1 {
					path = args[0]
				}
				return db().Seed(path)
			},
		},
		&cobra.Command{
			Use:   "backup",
			Short: "Create a backup of the database",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := db().Backup()
				return err
			},
		},
		&cobra.Command{
			Use:   "restore <file>",
			Short: "Restore the database from a backup",
			Args:  cobra.ExactArgs(1),
			RunE:  func(cmd *cobra.Command, args []string) error { return db().Restore(args[0]) },
		},
	)
	return cmd
}
