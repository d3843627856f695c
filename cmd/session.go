/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/nimbusconsole/apiserver/internal/client"
	"github.com/spf13/cobra"
)

// The session commands are the CLI face of the client session
// bootstrap: they cache the token locally and present it back to the
// server on the next run.

var registerCmd = &cobra.Command{
	Use:   "register <email> <password> <name>",
	Short: "Create a console account and start a session",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := newSession()
		if err != nil {
			return err
		}
		user, err := session.Register(cmd.Context(), args[0], args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Printf("registered %s <%s>\n", user.Name, user.Email)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login <email> <password>",
	Short: "Sign in and cache the session token",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := newSession()
		if err != nil {
			return err
		}
		user, err := session.Login(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("signed in as %s <%s>\n", user.Name, user.Email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the cached session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := newSession()
		if err != nil {
			return err
		}
		if err := session.Logout(); err != nil {
			return err
		}
		fmt.Println("signed out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Verify the cached session and show the current user",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := newSession()
		if err != nil {
			return err
		}
		switch session.Bootstrap(cmd.Context()) {
		case client.StateAuthenticated:
			user := session.User()
			fmt.Printf("%s <%s>\n", user.Name, user.Email)
		default:
			fmt.Println("not signed in")
		}
		return nil
	},
}

func newSession() (*client.Session, error) {
	cache, err := client.DefaultTokenCache()
	if err != nil {
		return nil, err
	}
	return client.NewSession(client.New(serverURL), cache), nil
}

func init() {
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}
