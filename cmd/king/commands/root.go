package commands

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"king/internal/app"
	"king/internal/console"
)

var (
	envFile  string
	dbFile   string
	seedFile string
	cipher   string

	cfg app.Config
)

func Execute() error {
	root := &cobra.Command{
		Use:          "king",
		Short:        "Encrypted grade book for teachers and students",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := app.LoadDotEnv(envFile, cmd.Flags().Changed("env-file")); err != nil {
				return err
			}
			c, err := app.ParseConfig(nil)
			if err != nil {
				return err
			}
			if dbFile != "" {
				c.DatabaseFile = dbFile
			}
			if seedFile != "" {
				c.SeedFile = seedFile
			}
			if cipher != "" {
				c.Cipher = cipher
			}
			cfg = c
			return nil
		},
		RunE: runConsole,
	}

	root.PersistentFlags().StringVar(&envFile, "env-file", app.DefaultEnvFile, "file of KEY=value lines loaded into the environment")
	root.PersistentFlags().StringVar(&dbFile, "db", "", "store file (default $DATABASE_FILE or db.json)")
	root.PersistentFlags().StringVar(&seedFile, "seed", "", "YAML file of bootstrap accounts")
	root.PersistentFlags().StringVar(&cipher, "cipher", "", "cipher for writing the store: xchacha20poly1305 or secretbox")

	klogFlags := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(klogFlags)
	root.PersistentFlags().AddGoFlagSet(klogFlags)

	root.AddCommand(initCmd(), hashCmd())
	return root.Execute()
}

func runConsole(cmd *cobra.Command, args []string) error {
	a, err := app.Open(cfg, app.Options{})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	var (
		readPassword console.PasswordReader
		tty          *console.TerminalState
	)
	if fd := int(os.Stdin.Fd()); cmd.InOrStdin() == os.Stdin && console.IsTerminal(fd) {
		if tty, err = console.SaveTerminal(fd); err != nil {
			return err
		}
		readPassword = console.TerminalPasswordReader(fd, out)
	}

	// Save before exiting on Ctrl-C or SIGTERM; the console itself only
	// returns on quit or end of input.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		sig, ok := <-sigs
		if !ok {
			return
		}
		klog.InfoS("Received signal, saving store", "signal", sig.String())
		// The password prompt may have echo off; exiting skips its restore.
		if err := tty.Restore(); err != nil {
			klog.ErrorS(err, "Restoring terminal failed")
		}
		code := 130
		if err := a.Shutdown(); err != nil {
			code = 1
		}
		klog.Flush()
		os.Exit(code)
	}()

	runErr := console.New(cmd.InOrStdin(), out, a.Auth, a.Grades, readPassword).Run()

	fmt.Fprintln(out, "Saving database!")
	if err := a.Shutdown(); err != nil {
		return fmt.Errorf("saving database: %w", err)
	}
	return runErr
}
