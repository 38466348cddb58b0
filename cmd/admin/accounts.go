package main

import (
	"fmt"
	"grievanceportal/backend/internal/models"
	"grievanceportal/backend/internal/session"
	"strings"

	"github.com/spf13/cobra"
)

var (
	accountName       string
	accountEmail      string
	accountReg        string
	accountDepartment string
	accountPassword   string
)

var createStudentCmd = &cobra.Command{
	Use:   "create-student",
	Short: "Create a student account",
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readPassword(accountPassword)
		if err != nil {
			return err
		}
		creds := session.Credentials{UserType: models.RoleStudent, RegistrationNumber: accountReg, Password: password}
		if err := creds.Validate(); err != nil {
			return err
		}
		if strings.TrimSpace(accountName) == "" {
			return models.Invalid("name", "full name is required")
		}
		hash, err := current.sessions.Hasher.Hash(password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}

		student := &models.Student{
			RegistrationNumber: creds.RegistrationNumber,
			FullName:           strings.TrimSpace(accountName),
			Email:              strings.TrimSpace(accountEmail),
			Department:         strings.TrimSpace(accountDepartment),
			PasswordHash:       hash,
		}
		if err := current.storage.CreateStudent(cmd.Context(), student); err != nil {
			return err
		}
		fmt.Printf("Student %s created with id %s.\n", student.RegistrationNumber, student.ID)
		return nil
	},
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readPassword(accountPassword)
		if err != nil {
			return err
		}
		creds := session.Credentials{UserType: models.RoleAdmin, Email: accountEmail, Password: password}
		if err := creds.Validate(); err != nil {
			return err
		}
		if strings.TrimSpace(accountName) == "" {
			return models.Invalid("name", "full name is required")
		}
		hash, err := current.sessions.Hasher.Hash(password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}

		user := &models.User{
			Email:        creds.Email,
			FullName:     strings.TrimSpace(accountName),
			Role:         models.RoleAdmin,
			Department:   strings.TrimSpace(accountDepartment),
			PasswordHash: hash,
		}
		if err := current.storage.CreateUser(cmd.Context(), user); err != nil {
			return err
		}
		fmt.Printf("Admin %s created with id %s.\n", user.Email, user.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createStudentCmd, createAdminCmd)

	for _, c := range []*cobra.Command{createStudentCmd, createAdminCmd} {
		c.Flags().StringVar(&accountName, "name", "", "Full name")
		c.Flags().StringVar(&accountEmail, "email", "", "Email address")
		c.Flags().StringVar(&accountDepartment, "department", "", "Department")
		c.Flags().StringVarP(&accountPassword, "password", "p", "", "Password (read from stdin if empty)")
	}
	createStudentCmd.Flags().StringVar(&accountReg, "reg", "", "Registration number (RA followed by digits)")
}
