package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"king/internal/console"
	"king/internal/crypto"
)

// hash prints a PHC string for a password, e.g. to inspect parameters.
func hashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash",
		Short: "Print an argon2id hash of a password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			hasher, err := crypto.NewPasswordHasher(cfg.Argon2Params())
			if err != nil {
				return err
			}

			var password string
			if fd := int(os.Stdin.Fd()); console.IsTerminal(fd) {
				fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
				password, err = console.TerminalPasswordReader(fd, cmd.ErrOrStderr())()
			} else {
				password, err = bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if errors.Is(err, io.EOF) && password != "" {
					err = nil
				}
				password = strings.TrimRight(password, "\r\n")
			}
			if err != nil {
				return err
			}

			h, err := hasher.Hash(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}
}
