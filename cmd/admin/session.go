package main

import (
	"fmt"
	"grievanceportal/backend/internal/models"
	"grievanceportal/backend/internal/session"

	"github.com/spf13/cobra"
)

var (
	loginType     string
	loginReg      string
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session locally",
	Long: `Sign in as a student or an admin.

Examples:
  admin login --type admin --email dean@campus.edu
  admin login --type student --reg RA2011003010001`,
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readPassword(loginPassword)
		if err != nil {
			return err
		}
		p, token, err := current.sessions.Login(cmd.Context(), session.Credentials{
			UserType:           models.Role(loginType),
			RegistrationNumber: loginReg,
			Email:              loginEmail,
			Password:           password,
		})
		if err != nil {
			return err
		}
		if err := current.local.Save(p, token); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
		fmt.Printf("Signed in as %s (%s).\n", p.DisplayName, p.Role)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Revoke and forget the local session",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap := current.local.Load()
		if snap == nil {
			fmt.Println("Not signed in.")
			return nil
		}
		if err := current.sessions.Logout(cmd.Context(), snap.Token); err != nil {
			return err
		}
		if err := current.local.Clear(); err != nil {
			return err
		}
		fmt.Println("Signed out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in principal",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := current.principal(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("%s\t%s\t%s", p.ID, p.DisplayName, p.Role)
		if p.RegistrationNumber != "" {
			fmt.Printf("\t%s", p.RegistrationNumber)
		}
		fmt.Println()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)

	loginCmd.Flags().StringVar(&loginType, "type", "admin", "Account type: student or admin")
	loginCmd.Flags().StringVar(&loginReg, "reg", "", "Student registration number")
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Admin email")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password (read from stdin if empty)")
}
