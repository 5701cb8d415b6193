package cmd

import (
	"context"
	"errors"

	"github.com/AnthonyFclub/glor-crm/dto"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var newUser dto.RegisterRequest

var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Crea una cuenta de agente o administrador",
	Long: `Crea una cuenta para iniciar sesión en el CRM.

Ejemplo:
  glor-crm create-user --email admin@glor.mx --password 's3cretpass' --name "Ana López" --role admin`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if newUser.Email == "" || newUser.Password == "" || newUser.FullName == "" {
			return errors.New("--email, --password and --name are required")
		}

		ctx := context.Background()
		a, err := openMigrated(ctx)
		if err != nil {
			return err
		}
		defer a.Close(logger)

		user, err := a.authService.Register(ctx, newUser)
		if err != nil {
			return err
		}
		logger.Info("User created",
			zap.String("id", user.ID),
			zap.String("email", user.Email),
			zap.String("role", string(user.Role)))
		return nil
	},
}

func init() {
	createUserCmd.Flags().StringVar(&newUser.Email, "email", "", "Email de acceso")
	createUserCmd.Flags().StringVar(&newUser.Password, "password", "", "Contraseña (mínimo 8 caracteres)")
	createUserCmd.Flags().StringVar(&newUser.FullName, "name", "", "Nombre completo")
	createUserCmd.Flags().StringVar(&newUser.Role, "role", "agent", "Rol: agent o admin")
}
