package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskflow-cli/internal/model"
	"taskflow-cli/internal/state"
)

var reportColumns = []int{10, 26, 30, 14, 22, 12}

func (m appModel) updateReports(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	app := m.app
	_, page := state.Paginate(&app.ReportsPager, app.Reports)

	switch msg.String() {
	case "j", "down":
		m.reportIdx = moveCursor(m.reportIdx, 1, len(page))
	case "k", "up":
		m.reportIdx = moveCursor(m.reportIdx, -1, len(page))
	case "right", "l":
		if app.ReportsPager.Next(len(app.Reports)) {
			m.reportIdx = 0
			m.persistUIState()
		}
	case "left", "h":
		if app.ReportsPager.Prev() {
			m.reportIdx = 0
			m.persistUIState()
		}
	case "d":
		if r, ok := m.selectedReport(); ok {
			if !app.CanDeleteReport(r) {
				m.setError(state.ErrNoPermission)
				return m, nil
			}
			m.askConfirm(
				fmt.Sprintf("Удалить отчет «%s»?", r.Title),
				viewReports,
				func(m *appModel) error {
					return m.app.DeleteReport(context.Background(), r.ID)
				},
			)
		}
	case "w":
		if r, ok := m.selectedReport(); ok {
			if r.FileName == "" {
				m.setError(errors.New("У отчета нет файла"))
				return m, nil
			}
			if err := app.SaveReportFile(context.Background(), r.ID, r.FileName); err != nil {
				m.setError(err)
				return m, nil
			}
			m.setInfo("Файл сохранен: " + r.FileName)
		}
	}
	return m, nil
}

func (m appModel) selectedReport() (model.Report, bool) {
	_, page := state.Paginate(&m.app.ReportsPager, m.app.Reports)
	if len(page) == 0 {
		return model.Report{}, false
	}
	return page[clampCursor(m.reportIdx, len(page))], true
}

func targetTypeLabel(t model.TargetType) string {
	if t == model.TargetProject {
		return "Проект"
	}
	return "Задача"
}

func (m appModel) viewReports() string {
	app := m.app
	pages, page := state.Paginate(&app.ReportsPager, app.Reports)
	idx := clampCursor(m.reportIdx, len(page))

	lines := []string{
		styleHeading().Render("Отчеты"),
		styleColumnHeader().Render(tableRow(reportColumns, "Тип", "Цель", "Заголовок", "Результат", "Автор", "Файл")),
	}
	if len(page) == 0 {
		lines = append(lines, styleMuted().Render("Отчетов нет"))
	}
	for i, r := range page {
		file := "—"
		if r.FileName != "" {
			file = r.FileName
		}
		row := tableRow(reportColumns,
			targetTypeLabel(r.TargetType), r.TargetLabel, r.Title, r.ResultStatus, r.AuthorName, file)
		if i == idx {
			row = styleSelectedRow().Render(row)
		}
		lines = append(lines, row)
	}
	if len(page) > 0 {
		r := page[idx]
		lines = append(lines, "", styleMuted().Render("Резолюция:"))
		lines = append(lines, renderMarkdown(r.Resolution, m.width-4))
	}
	lines = append(lines, "", pagerFooter(app.ReportsPager.Current(), pages),
		styleMuted().Render("d — удалить · w — скачать файл"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// Close/interim report form.

type reportFormModel struct {
	title      textinput.Model
	resolution textarea.Model
	file       textinput.Model
	focus      int
}

// Focus layout: title, resolution, result status, file path.
const (
	reportFieldTitle = iota
	reportFieldResolution
	reportFieldStatus
	reportFieldFile
	reportFieldCount
)

var (
	closeResultStatuses   = []string{"Выполнено", "Не выполнено"}
	interimResultStatuses = []string{"В работе", "Приостановлено"}
)

func (m *appModel) openReportForm(targetType model.TargetType, targetID int64, mode state.ReportMode, back view) {
	if err := m.app.OpenCloseReport(targetType, targetID, mode, viewNames[back]); err != nil {
		m.setError(err)
		return
	}
	f := reportFormModel{
		title:      newInput("заголовок", 48, 256),
		resolution: newArea("резолюция", 60, 5),
		file:       newInput("путь к файлу (необязательно)", 48, 512),
	}
	f.title.Focus()
	m.reportForm = f
	m.setView(viewCloseReport)
}

func (m *appModel) reportBackView() view {
	if v, ok := viewByName(m.app.ReportDraft.BackView); ok {
		return v
	}
	return viewReports
}

func (f *reportFormModel) setFocus(i int) {
	f.focus = i
	f.title.Blur()
	f.resolution.Blur()
	f.file.Blur()
	switch i {
	case reportFieldTitle:
		f.title.Focus()
	case reportFieldResolution:
		f.resolution.Focus()
	case reportFieldFile:
		f.file.Focus()
	}
}

func (m appModel) updateCloseReport(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &m.reportForm
	d := &m.app.ReportDraft
	inArea := f.focus == reportFieldResolution

	switch msg.String() {
	case "esc":
		back := m.reportBackView()
		m.app.ReportDraft = state.ReportDraft{}
		m.setView(back)
		return m, nil
	case "ctrl+s":
		d.Title = f.title.Value()
		d.Resolution = f.resolution.Value()
		d.FilePath = f.file.Value()
		if err := m.app.SubmitReport(context.Background()); err != nil {
			m.setError(err)
			return m, nil
		}
		m.setView(viewReports)
		m.setInfo("Отчет сохранен")
		return m, nil
	case "tab":
		f.setFocus((f.focus + 1) % reportFieldCount)
		return m, nil
	case "shift+tab":
		f.setFocus((f.focus + reportFieldCount - 1) % reportFieldCount)
		return m, nil
	case "down", "up":
		if !inArea {
			delta := 1
			if msg.String() == "up" {
				delta = -1
			}
			f.setFocus((f.focus + reportFieldCount + delta) % reportFieldCount)
			return m, nil
		}
	case "left", "right":
		if f.focus == reportFieldStatus {
			options := closeResultStatuses
			if d.Mode == state.ReportModeInterim {
				options = interimResultStatuses
			}
			delta := 1
			if msg.String() == "left" {
				delta = -1
			}
			d.ResultStatus = options[cycleOption(indexOfString(options, d.ResultStatus), delta, len(options))]
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch f.focus {
	case reportFieldTitle:
		f.title, cmd = f.title.Update(msg)
	case reportFieldResolution:
		f.resolution, cmd = f.resolution.Update(msg)
	case reportFieldFile:
		f.file, cmd = f.file.Update(msg)
	}
	return m, cmd
}

func (m appModel) viewCloseReport() string {
	f := m.reportForm
	d := m.app.ReportDraft

	title := "Промежуточный отчет"
	if d.Mode == state.ReportModeClose {
		title = "Закрытие с отчетом"
	}

	lines := []string{
		styleHeading().Render(title),
		styleMuted().Render(targetTypeLabel(d.TargetType) + ": " + d.TargetLabel),
		"",
		renderField("Заголовок", f.title.View(), f.focus == reportFieldTitle),
		renderField("Резолюция", "", f.focus == reportFieldResolution),
		f.resolution.View(),
		renderField("Результат", "‹ "+d.ResultStatus+" ›", f.focus == reportFieldStatus),
		renderField("Файл", f.file.View(), f.focus == reportFieldFile),
		"",
		styleMuted().Render("ctrl+s — отправить · esc — отмена"),
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
