package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/sidata/backend/internal/auth"
	"github.com/sidata/backend/internal/domain"
	"github.com/sidata/backend/internal/repository"
	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage staff accounts",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a staff account",
	RunE:  runUserCreate,
}

var (
	userEmailFlag    string
	userPasswordFlag string
	userNameFlag     string
	userRoleFlag     string
	userUptFlag      string
)

func init() {
	userCmd.AddCommand(userCreateCmd)
	userCreateCmd.Flags().StringVar(&userEmailFlag, "email", "", "Login email (required)")
	userCreateCmd.Flags().StringVar(&userPasswordFlag, "password", "", "Login password (required, min 8 characters)")
	userCreateCmd.Flags().StringVar(&userNameFlag, "name", "Admin UPT", "Display name")
	userCreateCmd.Flags().StringVar(&userRoleFlag, "role", string(domain.RoleAdminUPT), "admin_upt or super_admin")
	userCreateCmd.Flags().StringVar(&userUptFlag, "upt", "", "Unit code owning imported records (default from IMPORT_DEFAULT_UPT)")
	_ = userCreateCmd.MarkFlagRequired("email")
	_ = userCreateCmd.MarkFlagRequired("password")
}

func runUserCreate(cmd *cobra.Command, args []string) error {
	role := domain.UserRole(strings.TrimSpace(userRoleFlag))
	if role != domain.RoleAdminUPT && role != domain.RoleSuperAdmin {
		return fmt.Errorf("role tidak valid: %s", userRoleFlag)
	}
	if len(userPasswordFlag) < 8 {
		return fmt.Errorf("password minimal 8 karakter")
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := context.Background()
	repo := repository.NewUserRepository(e.db)
	exists, err := repo.EmailExists(ctx, userEmailFlag)
	if err != nil {
		return err
	}
	if exists {
		color.Yellow("Email %s sudah terdaftar", userEmailFlag)
		return nil
	}

	hash, err := auth.HashPassword(userPasswordFlag)
	if err != nil {
		return err
	}
	upt := userUptFlag
	if upt == "" {
		upt = e.cfg.Import.DefaultUnitCode
	}

	user := &domain.User{
		Email:        userEmailFlag,
		PasswordHash: hash,
		Name:         userNameFlag,
		Role:         role,
		UptCode:      upt,
	}
	if err := repo.Create(ctx, user); err != nil {
		return err
	}
	color.Green("User %s (%s, %s) berhasil dibuat", user.Email, user.Role, user.UptCode)
	return nil
}
