package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"taskflow-cli/internal/model"
)

func newLoginCmd(app *App) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <login>",
		Short: "Войти и сохранить сессию",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw := password
			if pw == "" {
				var err error
				pw, err = promptLine("Пароль: ")
				if err != nil {
					return err
				}
			}

			client := app.Client()
			sess, err := client.Login(context.Background(), model.LoginInput{Login: args[0], Password: pw})
			if err != nil {
				return err
			}
			if err := app.Store().SaveSession(sess); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Вы вошли как %s (%s)\n", sess.FullName, sess.Role.Label())
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "Пароль (по умолчанию запрашивается)")
	return cmd
}

func newRegisterCmd(app *App) *cobra.Command {
	var in model.RegisterInput

	cmd := &cobra.Command{
		Use:   "register <login>",
		Short: "Зарегистрировать нового пользователя",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Login = args[0]
			if in.Password == "" {
				return errors.New("укажите --password")
			}
			if in.RepeatPassword == "" {
				in.RepeatPassword = in.Password
			}
			if err := app.Client().Register(context.Background(), in); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Пользователь зарегистрирован. Теперь выполните taskflow login.")
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Password, "password", "", "Пароль")
	cmd.Flags().StringVar(&in.FullName, "full-name", "", "Полное имя")
	cmd.Flags().StringVar(&in.Position, "position", "", "Должность")
	cmd.Flags().Int64Var(&in.DepartmentID, "department", 0, "ID отдела")
	return cmd
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Показать сохраненную сессию",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.Store().LoadSession()
			if err != nil {
				return err
			}
			if sess == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Сессия не найдена. Выполните taskflow login.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s — %s, %s\n", sess.Login, sess.FullName, sess.Role.Label())
			return nil
		},
	}
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Удалить сохраненную сессию",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Store().ClearSession(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Сессия удалена.")
			return nil
		},
	}
}

func promptLine(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	r := bufio.NewReader(os.Stdin)
	line, err := r.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
