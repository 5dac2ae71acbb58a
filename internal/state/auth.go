package state

import (
	"context"
	"errors"
	"strings"

	"taskflow-cli/internal/model"
)

// Login authenticates against the backend and installs the session.
// Persisting it is the caller's concern (the store package).
func (a *App) Login(ctx context.Context, login, password string) (*model.Session, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, errors.New("Введите логин и пароль")
	}
	sess, err := a.gw.Login(ctx, model.LoginInput{Login: login, Password: password})
	if err != nil {
		return nil, err
	}
	a.SetSession(sess)
	return sess, nil
}

func (a *App) Register(ctx context.Context, in model.RegisterInput) error {
	if strings.TrimSpace(in.Login) == "" || in.Password == "" ||
		strings.TrimSpace(in.FullName) == "" || strings.TrimSpace(in.Position) == "" {
		return errors.New("Заполните все обязательные поля")
	}
	if in.Password != in.RepeatPassword {
		return errors.New("Пароли не совпадают")
	}
	return a.gw.Register(ctx, in)
}

// RefreshProfile re-reads the actor's own record and mutates the
// session in place.
func (a *App) RefreshProfile(ctx context.Context) error {
	u, err := a.gw.Profile(ctx)
	if err != nil {
		return err
	}
	a.SetSession(u)
	return nil
}

func (a *App) UpdateProfile(ctx context.Context, in model.ProfileInput) error {
	if strings.TrimSpace(in.FullName) == "" || strings.TrimSpace(in.Position) == "" {
		return errors.New("Заполните имя и должность")
	}
	u, err := a.gw.UpdateProfile(ctx, in)
	if err != nil {
		return err
	}
	a.SetSession(u)
	return nil
}

func (a *App) UploadAvatar(ctx context.Context, filePath string) error {
	if strings.TrimSpace(filePath) == "" {
		return errors.New("Укажите файл")
	}
	u, err := a.gw.UploadAvatar(ctx, filePath)
	if err != nil {
		return err
	}
	a.SetSession(u)
	return nil
}
