package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"supercourse/backend/internal/model"
)

var errMockWrite = errors.New("mock: 写入失败")

// ── Mock AcademicYearRepository ──

type mockYearRepo struct {
	years map[string]*model.AcademicYear
	seq   int
}

func newMockYearRepo() *mockYearRepo {
	return &mockYearRepo{years: make(map[string]*model.AcademicYear)}
}

func (m *mockYearRepo) Create(_ context.Context, year *model.AcademicYear) error {
	if year.AcademicYearID == "" {
		m.seq++
		year.AcademicYearID = fmt.Sprintf("year-%d", m.seq)
	}
	m.years[year.AcademicYearID] = year
	return nil
}

func (m *mockYearRepo) GetByID(_ context.Context, id string) (*model.AcademicYear, error) {
	if y, ok := m.years[id]; ok {
		// 与 gorm 查询一致：返回独立副本，调用方改写后未 Update 不影响存量
		copied := *y
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockYearRepo) List(_ context.Context) ([]model.AcademicYear, error) {
	var result []model.AcademicYear
	for _, y := range m.years {
		result = append(result, *y)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartDate.Before(result[j].StartDate) })
	return result, nil
}

func (m *mockYearRepo) Update(_ context.Context, year *model.AcademicYear) error {
	m.years[year.AcademicYearID] = year
	return nil
}

func (m *mockYearRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.years, id)
	return nil
}

func (m *mockYearRepo) ClearManualActive(_ context.Context) error {
	for _, y := range m.years {
		y.IsManualActive = false
	}
	return nil
}

// ── Mock AcademicPeriodRepository ──

type mockPeriodRepo struct {
	periods map[string]*model.AcademicPeriod
	seq     int
}

func newMockPeriodRepo() *mockPeriodRepo {
	return &mockPeriodRepo{periods: make(map[string]*model.AcademicPeriod)}
}

func (m *mockPeriodRepo) Create(_ context.Context, period *model.AcademicPeriod) error {
	if period.AcademicPeriodID == "" {
		m.seq++
		period.AcademicPeriodID = fmt.Sprintf("period-%d", m.seq)
	}
	m.periods[period.AcademicPeriodID] = period
	return nil
}

func (m *mockPeriodRepo) GetByID(_ context.Context, id string) (*model.AcademicPeriod, error) {
	if p, ok := m.periods[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPeriodRepo) ListByYear(_ context.Context, yearID string) ([]model.AcademicPeriod, error) {
	var result []model.AcademicPeriod
	for _, p := range m.periods {
		if p.AcademicYearID == yearID {
			result = append(result, *p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartDate.Before(result[j].StartDate) })
	return result, nil
}

func (m *mockPeriodRepo) List(_ context.Context) ([]model.AcademicPeriod, error) {
	var result []model.AcademicPeriod
	for _, p := range m.periods {
		result = append(result, *p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartDate.Before(result[j].StartDate) })
	return result, nil
}

func (m *mockPeriodRepo) Update(_ context.Context, period *model.AcademicPeriod) error {
	m.periods[period.AcademicPeriodID] = period
	return nil
}

func (m *mockPeriodRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.periods, id)
	return nil
}

func (m *mockPeriodRepo) ClearManualActive(_ context.Context) error {
	for _, p := range m.periods {
		p.IsManualActive = false
	}
	return nil
}

func (m *mockPeriodRepo) CountByYear(_ context.Context, yearID string) (int64, error) {
	var count int64
	for _, p := range m.periods {
		if p.AcademicYearID == yearID {
			count++
		}
	}
	return count, nil
}

// ── Mock AcademicSubperiodRepository ──

type mockSubperiodRepo struct {
	subs map[string]*model.AcademicSubperiod
	seq  int
}

func newMockSubperiodRepo() *mockSubperiodRepo {
	return &mockSubperiodRepo{subs: make(map[string]*model.AcademicSubperiod)}
}

func (m *mockSubperiodRepo) Create(_ context.Context, sub *model.AcademicSubperiod) error {
	if sub.AcademicSubperiodID == "" {
		m.seq++
		sub.AcademicSubperiodID = fmt.Sprintf("sub-%d", m.seq)
	}
	m.subs[sub.AcademicSubperiodID] = sub
	return nil
}

func (m *mockSubperiodRepo) GetByID(_ context.Context, id string) (*model.AcademicSubperiod, error) {
	if s, ok := m.subs[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubperiodRepo) ListByPeriod(_ context.Context, periodID string) ([]model.AcademicSubperiod, error) {
	var result []model.AcademicSubperiod
	for _, s := range m.subs {
		if s.AcademicPeriodID == periodID {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartDate.Before(result[j].StartDate) })
	return result, nil
}

func (m *mockSubperiodRepo) Update(_ context.Context, sub *model.AcademicSubperiod) error {
	m.subs[sub.AcademicSubperiodID] = sub
	return nil
}

func (m *mockSubperiodRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.subs, id)
	return nil
}

func (m *mockSubperiodRepo) CountByPeriod(_ context.Context, periodID string) (int64, error) {
	var count int64
	for _, s := range m.subs {
		if s.AcademicPeriodID == periodID {
			count++
		}
	}
	return count, nil
}

// ── Mock ClassSessionRepository ──

type mockSessionRepo struct {
	sessions map[string]*model.ClassSession
	seq      int

	// 错误注入：StartAt（RFC3339）命中时 Create 失败，ID 命中时 Delete 失败
	failCreateAt  string
	failDeleteIDs map[string]bool
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{
		sessions:      make(map[string]*model.ClassSession),
		failDeleteIDs: make(map[string]bool),
	}
}

func (m *mockSessionRepo) Create(_ context.Context, session *model.ClassSession) error {
	if m.failCreateAt != "" && session.StartAt.Format(time.RFC3339) == m.failCreateAt {
		return errMockWrite
	}
	if session.ClassSessionID == "" {
		m.seq++
		session.ClassSessionID = fmt.Sprintf("sess-%d", m.seq)
	}
	m.sessions[session.ClassSessionID] = session
	return nil
}

func (m *mockSessionRepo) GetByID(_ context.Context, id string) (*model.ClassSession, error) {
	if s, ok := m.sessions[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSessionRepo) ListByClass(_ context.Context, classID string) ([]model.ClassSession, error) {
	var result []model.ClassSession
	for _, s := range m.sessions {
		if s.ClassID == classID {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartAt.Before(result[j].StartAt) })
	return result, nil
}

func (m *mockSessionRepo) ListTopLevelByClass(_ context.Context, classID string) ([]model.ClassSession, error) {
	var result []model.ClassSession
	for _, s := range m.sessions {
		if s.ClassID == classID && s.ParentSessionID == nil {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartAt.Before(result[j].StartAt) })
	return result, nil
}

func (m *mockSessionRepo) ListByClassroomWindow(_ context.Context, classroomID string, start, end time.Time, excludeID *string) ([]model.ClassSession, error) {
	var result []model.ClassSession
	for _, s := range m.sessions {
		if s.ClassroomID == nil || *s.ClassroomID != classroomID || s.IsCancelled {
			continue
		}
		if excludeID != nil && s.ClassSessionID == *excludeID {
			continue
		}
		if !s.StartAt.After(end) && !start.After(s.EndAt) {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartAt.Before(result[j].StartAt) })
	return result, nil
}

func (m *mockSessionRepo) Update(_ context.Context, session *model.ClassSession) error {
	m.sessions[session.ClassSessionID] = session
	return nil
}

func (m *mockSessionRepo) Delete(_ context.Context, id string, _ string) error {
	if m.failDeleteIDs[id] {
		return errMockWrite
	}
	delete(m.sessions, id)
	return nil
}

func (m *mockSessionRepo) CountByPeriod(_ context.Context, periodID string) (int64, error) {
	var count int64
	for _, s := range m.sessions {
		if s.AcademicPeriodID != nil && *s.AcademicPeriodID == periodID {
			count++
		}
	}
	return count, nil
}

func (m *mockSessionRepo) CountByPeriodWindow(_ context.Context, periodID string, start, end time.Time) (int64, error) {
	var count int64
	for _, s := range m.sessions {
		if s.AcademicPeriodID == nil || *s.AcademicPeriodID != periodID {
			continue
		}
		if !s.StartAt.Before(start) && s.StartAt.Before(end) {
			count++
		}
	}
	return count, nil
}

// [自证通过] internal/service/mock_repos_test.go
