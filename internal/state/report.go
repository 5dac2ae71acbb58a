package state

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"taskflow-cli/internal/model"
)

type ReportMode string

const (
	// ReportModeClose marks the target closed on submission.
	ReportModeClose ReportMode = "close"
	// ReportModeInterim is a progress note; the target stays open.
	ReportModeInterim ReportMode = "interim"
)

// ReportDraft backs the close/interim report form.
type ReportDraft struct {
	TargetType   model.TargetType
	TargetID     int64
	TargetLabel  string
	Mode         ReportMode
	ResultStatus string
	Title        string
	Resolution   string
	FilePath     string
	// BackView is where esc/cancel returns to (the list the form was
	// opened from).
	BackView string
}

// OpenCloseReport seeds the draft from the clicked entity.
func (a *App) OpenCloseReport(targetType model.TargetType, targetID int64, mode ReportMode, backView string) error {
	d := ReportDraft{
		TargetType: targetType,
		TargetID:   targetID,
		Mode:       mode,
		BackView:   backView,
	}
	switch targetType {
	case model.TargetProject:
		p, ok := a.projectByID(targetID)
		if !ok {
			return errors.New("Проект не найден")
		}
		d.TargetLabel = p.Name
	case model.TargetTask:
		t, ok := a.taskByID(targetID)
		if !ok {
			return errors.New("Задача не найдена")
		}
		d.TargetLabel = t.Title
	default:
		return errors.New("Неизвестный тип цели")
	}
	if mode == ReportModeClose {
		d.ResultStatus = "Выполнено"
	} else {
		d.ResultStatus = "В работе"
	}
	a.ReportDraft = d
	return nil
}

// SubmitReport validates and uploads the report, then reloads the
// reports list and the target's collection. close_item is true only
// for close-mode reports; interim reports never close their target.
func (a *App) SubmitReport(ctx context.Context) error {
	d := &a.ReportDraft
	if d.TargetID == 0 {
		return errors.New("Цель отчета не выбрана")
	}
	if strings.TrimSpace(d.Title) == "" {
		return errors.New("Укажите заголовок отчета")
	}
	if strings.TrimSpace(d.Resolution) == "" {
		return errors.New("Укажите резолюцию")
	}
	if d.FilePath != "" {
		st, err := os.Stat(d.FilePath)
		if err != nil {
			return errors.New("Файл не найден")
		}
		if st.Size() > maxReportFileSize {
			return errors.New("Файл не должен превышать 50 МБ")
		}
	}

	in := model.ReportInput{
		TargetType:   d.TargetType,
		TargetID:     d.TargetID,
		ResultStatus: strings.TrimSpace(d.ResultStatus),
		Title:        strings.TrimSpace(d.Title),
		Resolution:   d.Resolution,
		CloseItem:    d.Mode == ReportModeClose,
		FilePath:     d.FilePath,
	}
	if err := a.gw.CreateReport(ctx, in); err != nil {
		return err
	}

	switch d.TargetType {
	case model.TargetProject:
		if err := a.LoadProjects(ctx); err != nil {
			return err
		}
	case model.TargetTask:
		if err := a.LoadTasks(ctx); err != nil {
			return err
		}
	}
	if err := a.LoadReports(ctx); err != nil {
		return err
	}
	a.ReportDraft = ReportDraft{}
	return nil
}

const maxReportFileSize = 50 << 20

// CanDeleteReport: the author may always delete their own report,
// privileged roles may delete any.
func (a *App) CanDeleteReport(r model.Report) bool {
	if a.Session == nil {
		return false
	}
	return r.AuthorID == a.Session.ID || a.Caps.CanDeleteReports
}

func (a *App) DeleteReport(ctx context.Context, id int64) error {
	var target *model.Report
	for i := range a.Reports {
		if a.Reports[i].ID == id {
			target = &a.Reports[i]
			break
		}
	}
	if target == nil {
		return errors.New("Отчет не найден")
	}
	if !a.CanDeleteReport(*target) {
		return ErrNoPermission
	}
	if err := a.gw.DeleteReport(ctx, id); err != nil {
		return err
	}
	return a.LoadReports(ctx)
}

// SaveReportFile downloads a report attachment to destPath.
func (a *App) SaveReportFile(ctx context.Context, id int64, destPath string) error {
	f, err := os.Create(destPath)
	if err != nil {
		return err
	}
	if err := a.gw.DownloadReportFile(ctx, id, io.Writer(f)); err != nil {
		f.Close()
		os.Remove(destPath)
		return err
	}
	return f.Close()
}
