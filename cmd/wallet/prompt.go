package wallet

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/term"
)

var stdin = bufio.NewReader(os.Stdin)

// promptPassword prompts for password input (hides input on a terminal)
//
//nolint:forbidigo // Password input requires direct terminal I/O
func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := stdin.ReadString('\n')
		if err != nil && line == "" {
			return "", errors.Wrap(err, "failed to read password from stdin")
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	passwordBytes, err := term.ReadPassword(fd)
	if err != nil {
		return "", errors.Wrap(err, "failed to read password from terminal")
	}

	fmt.Fprintln(os.Stderr) // New line after password input

	return string(passwordBytes), nil
}

// promptNewPassword asks twice, the password protects a freshly stored seed.
func promptNewPassword() (string, error) {
	password, err := promptPassword("Choose a wallet password: ")
	if err != nil {
		return "", err
	}

	confirm, err := promptPassword("Confirm wallet password: ")
	if err != nil {
		return "", err
	}

	if password != confirm {
		return "", errors.New("passwords do not match")
	}

	return password, nil
}

//nolint:forbidigo
func confirm(prompt string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N]: ", prompt)

	line, _ := stdin.ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))

	return answer == "y" || answer == "yes"
}
