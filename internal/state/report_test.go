package state

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"taskflow-cli/internal/model"
)

func TestSubmitCloseReportReloadsTargetAndReports(t *testing.T) {
	gw := &fakeGateway{
		tasks: []model.Task{{ID: 3, Title: "Задача"}},
	}
	a := newTestApp(gw, model.RoleOwner)
	a.Tasks = gw.tasks

	if err := a.OpenCloseReport(model.TargetTask, 3, ReportModeClose, "tasks"); err != nil {
		t.Fatalf("open: %v", err)
	}
	if a.ReportDraft.TargetLabel != "Задача" {
		t.Fatalf("label = %q", a.ReportDraft.TargetLabel)
	}
	a.ReportDraft.Title = "Итог"
	a.ReportDraft.Resolution = "Сделано"
	gw.calls = nil

	if err := a.SubmitReport(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	want := []string{
		"POST /api/v1/reports target=task/3 close=true",
		"GET /api/v1/tasks dep=0",
		"GET /api/v1/reports",
	}
	for i := range want {
		if gw.calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", gw.calls, want)
		}
	}
}

func TestInterimReportDoesNotCloseTarget(t *testing.T) {
	gw := &fakeGateway{projects: []model.Project{{ID: 5, Name: "П"}}}
	a := newTestApp(gw, model.RoleOwner)
	a.Projects = gw.projects

	if err := a.OpenCloseReport(model.TargetProject, 5, ReportModeInterim, "projects"); err != nil {
		t.Fatalf("open: %v", err)
	}
	a.ReportDraft.Title = "Промежуточный"
	a.ReportDraft.Resolution = "В работе"
	gw.calls = nil

	if err := a.SubmitReport(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if gw.calls[0] != "POST /api/v1/reports target=project/5 close=false" {
		t.Fatalf("calls = %v", gw.calls)
	}
}

func TestSubmitReportRejectsOversizeFile(t *testing.T) {
	gw := &fakeGateway{tasks: []model.Task{{ID: 1, Title: "t"}}}
	a := newTestApp(gw, model.RoleOwner)
	a.Tasks = gw.tasks

	big := filepath.Join(t.TempDir(), "big.bin")
	f, err := os.Create(big)
	if err != nil {
		t.Fatal(err)
	}
	// Sparse file over the 50MB cap.
	if err := f.Truncate(maxReportFileSize + 1); err != nil {
		t.Fatal(err)
	}
	f.Close()

	_ = a.OpenCloseReport(model.TargetTask, 1, ReportModeClose, "tasks")
	a.ReportDraft.Title = "x"
	a.ReportDraft.Resolution = "y"
	a.ReportDraft.FilePath = big
	gw.calls = nil

	err = a.SubmitReport(context.Background())
	if err == nil || err.Error() != "Файл не должен превышать 50 МБ" {
		t.Fatalf("err = %v", err)
	}
	if len(gw.calls) != 0 {
		t.Fatalf("oversize upload reached the network: %v", gw.calls)
	}
}

func TestDeleteReportAuthorOrPrivileged(t *testing.T) {
	gw := &fakeGateway{
		reports: []model.Report{
			{ID: 1, AuthorID: 2},
			{ID: 2, AuthorID: 50},
		},
	}
	a := newTestApp(gw, model.RoleMember) // session id 2
	a.Reports = gw.reports

	if err := a.DeleteReport(context.Background(), 2); err != ErrNoPermission {
		t.Fatalf("foreign report delete allowed: %v", err)
	}
	if err := a.DeleteReport(context.Background(), 1); err != nil {
		t.Fatalf("own report delete refused: %v", err)
	}

	admin := newTestApp(gw, model.RoleAdmin)
	admin.Reports = gw.reports
	if err := admin.DeleteReport(context.Background(), 2); err != nil {
		t.Fatalf("privileged delete refused: %v", err)
	}
}

func TestSaveReportFileWritesAndCleansUp(t *testing.T) {
	gw := &fakeGateway{}
	a := newTestApp(gw, model.RoleOwner)
	dest := filepath.Join(t.TempDir(), "отчет.pdf")

	if err := a.SaveReportFile(context.Background(), 9, dest); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(dest); err != nil {
		t.Fatalf("expected file at %s: %v", dest, err)
	}
	if gw.calls[0] != "GET /api/v1/reports/9/file" {
		t.Fatalf("calls = %v", gw.calls)
	}

	gw.err = errors.New("внутренняя ошибка сервера")
	dest2 := filepath.Join(t.TempDir(), "отчет.pdf")
	if err := a.SaveReportFile(context.Background(), 9, dest2); err == nil {
		t.Fatal("expected download error")
	}
	if _, err := os.Stat(dest2); !os.IsNotExist(err) {
		t.Fatalf("expected partial file removed, stat err = %v", err)
	}
}
