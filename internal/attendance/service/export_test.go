package service

import "time"

func (s *AttendanceService) SetNow(now func() time.Time) { s.now = now }

func (s *ExceptionService) SetNow(now func() time.Time) { s.now = now }

func (s *DashboardService) SetNow(now func() time.Time) { s.now = now }
