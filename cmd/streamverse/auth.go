package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var loginCmd = &cobra.Command{
	Use:   "login [email]",
	Short: "Sign in and save the session token",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLoginCmd,
}

var registerCmd = &cobra.Command{
	Use:   "register [email]",
	Short: "Create an account and sign in",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRegisterCmd,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the session and forget the saved token",
	RunE:  runLogoutCmd,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	RunE:  runWhoamiCmd,
}

func init() {
	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd)
	registerCmd.Flags().String("name", "", "Display name")
}

func runLoginCmd(cmd *cobra.Command, args []string) error {
	in := bufio.NewReader(cmd.InOrStdin())
	email, err := argOrPrompt(in, args, "Email")
	if err != nil {
		return err
	}
	password, err := readPassword(in, "Password")
	if err != nil {
		return err
	}

	sess, err := NewClient(serverURL, "").Login(email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	return finishSession(sess)
}

func runRegisterCmd(cmd *cobra.Command, args []string) error {
	in := bufio.NewReader(cmd.InOrStdin())
	email, err := argOrPrompt(in, args, "Email")
	if err != nil {
		return err
	}
	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		if name, err = prompt(in, "Display name"); err != nil {
			return err
		}
	}
	password, err := readPassword(in, "Password")
	if err != nil {
		return err
	}

	sess, err := NewClient(serverURL, "").Register(email, password, name)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}
	return finishSession(sess)
}

func finishSession(sess *SessionResponse) error {
	if err := saveToken(tokenPath(), sess.Token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	if jsonOutput {
		printJSON(sess.User)
		return nil
	}
	fmt.Printf("Signed in as %s (%s)\n", sess.User.Name, sess.User.Email)
	fmt.Printf("Session expires %s\n", formatTimeAgo(sess.ExpiresAt))
	return nil
}

func runLogoutCmd(cmd *cobra.Command, args []string) error {
	client := newClient()
	if client.token != "" {
		if err := client.Logout(); err != nil {
			return fmt.Errorf("logout failed: %w", err)
		}
	}
	if err := removeToken(tokenPath()); err != nil {
		return fmt.Errorf("remove token: %w", err)
	}
	fmt.Println("Signed out")
	return nil
}

func runWhoamiCmd(cmd *cobra.Command, args []string) error {
	p, err := newClient().Me()
	if err != nil {
		if IsUnauthorized(err) {
			return errors.New("not signed in (run 'streamverse login')")
		}
		return err
	}
	if jsonOutput {
		printJSON(p)
		return nil
	}
	fmt.Printf("%s <%s>\n", p.Name, p.Email)
	fmt.Printf("  ID:      %s\n", p.ID)
	fmt.Printf("  Joined:  %s\n", formatTimeAgo(p.CreatedAt))
	return nil
}

func argOrPrompt(in *bufio.Reader, args []string, label string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	return prompt(in, label)
}

func prompt(in *bufio.Reader, label string) (string, error) {
	fmt.Printf("%s: ", label)
	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(line), nil
}

// readPassword reads without echo on a terminal and falls back to a plain line otherwise.
func readPassword(in *bufio.Reader, label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return prompt(in, label)
	}
	fmt.Printf("%s: ", label)
	b, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}
