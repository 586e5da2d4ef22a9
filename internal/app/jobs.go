package app

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/guonaihong/gout"
	"github.com/panjf2000/ants/v2"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/abderrahmaneOU/alx-backend-graphql-crm/internal/api"
	"github.com/abderrahmaneOU/alx-backend-graphql-crm/pkg/common"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

const auditLogRetentionDays = 365

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	jobs := []struct {
		spec string
		task func()
	}{
		{a.appConfig.Jobs.Heartbeat, a.SchedHeartbeatTask},
		{a.appConfig.Jobs.Report, a.SchedReportTask},
		{a.appConfig.Jobs.Reminders, a.SchedOrderRemindersTask},
		{a.appConfig.Jobs.LowStock, a.SchedLowStockTask},
	}
	for _, j := range jobs {
		if j.spec == "" {
			continue
		}
		task := j.task
		if _, err := a.sched.AddFunc(j.spec, func() { go task() }); err != nil {
			zap.S().Errorf("init job error %s", err.Error())
		}
	}

	_, err := a.sched.AddFunc("@daily", func() {
		if err := a.store.OprLogs().DeleteOlderThan(context.Background(), auditLogRetentionDays); err != nil {
			zap.L().Error("audit log cleanup failed", zap.Error(err))
		}
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
}

// RunJobNow triggers a named background job immediately
func (a *Application) RunJobNow(name string) error {
	switch name {
	case "heartbeat":
		a.SchedHeartbeatTask()
	case "report":
		a.SchedReportTask()
	case "reminders":
		a.SchedOrderRemindersTask()
	case "low_stock":
		a.SchedLowStockTask()
	default:
		return fmt.Errorf("unknown job %q", name)
	}
	return nil
}

func (a *Application) apiURL(path string) string {
	return fmt.Sprintf("http://127.0.0.1:%d%s", a.appConfig.Web.Port, path)
}

func (a *Application) jobToken() (string, error) {
	return api.SignToken(a.appConfig.Web.Secret, a.appConfig.Web.Username, 10*time.Minute)
}

func (a *Application) jobLogPath(name string) string {
	return filepath.Join(a.appConfig.System.Workdir, "logs", name)
}

// SchedHeartbeatTask polls the liveness endpoint and appends one line to
// the heartbeat log, matching the DD/MM/YYYY-HH:MM:SS cron format.
func (a *Application) SchedHeartbeatTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	var res struct {
		Success bool `json:"success"`
		Data    struct {
			Message string `json:"message"`
		} `json:"data"`
	}
	status := "CRM check failed"
	err := gout.GET(a.apiURL("/api/ping")).SetTimeout(5 * time.Second).BindJSON(&res).Do()
	if err == nil && res.Data.Message != "" {
		status = res.Data.Message
	}

	line := fmt.Sprintf("%s CRM is alive - %s", time.Now().Format("02/01/2006-15:04:05"), status)
	if err := common.FileAppend(a.jobLogPath("crm_heartbeat_log.txt"), line); err != nil {
		zap.L().Error("heartbeat log append failed", zap.Error(err))
	}
}

// SchedReportTask fetches the summary rollup and appends a report line.
func (a *Application) SchedReportTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	token, err := a.jobToken()
	if err != nil {
		zap.L().Error("report job token error", zap.Error(err))
		return
	}

	var res struct {
		Success bool              `json:"success"`
		Data    api.ReportSummary `json:"data"`
	}
	err = gout.GET(a.apiURL("/api/reports/summary")).
		SetHeader(gout.H{"Authorization": "Bearer " + token}).
		SetTimeout(10 * time.Second).
		BindJSON(&res).Do()
	if err != nil {
		zap.L().Error("report job request failed", zap.Error(err))
		return
	}

	line := fmt.Sprintf("%s - Report: %d customers, %d orders, %.2f revenue",
		time.Now().Format("2006-01-02 15:04:05"),
		res.Data.Customers, res.Data.Orders, res.Data.Revenue)
	if err := common.FileAppend(a.jobLogPath("crm_report_log.txt"), line); err != nil {
		zap.L().Error("report log append failed", zap.Error(err))
	}
}

type reminderOrder struct {
	ID       string `json:"id"`
	Customer *struct {
		Email string `json:"email"`
	} `json:"customer"`
}

// SchedOrderRemindersTask logs a reminder for every order of the last
// seven days, fanned out over a worker pool, and mails the customer when
// SMTP is configured.
func (a *Application) SchedOrderRemindersTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	token, err := a.jobToken()
	if err != nil {
		zap.L().Error("reminders job token error", zap.Error(err))
		return
	}

	cutoff := time.Now().AddDate(0, 0, -7)
	var res struct {
		Success bool            `json:"success"`
		Data    []reminderOrder `json:"data"`
	}
	err = gout.GET(a.apiURL("/api/orders")).
		SetQuery(gout.H{
			"order_date_gte": cutoff.Format("2006-01-02"),
			"perPage":        500,
			"sort":           "order_date",
		}).
		SetHeader(gout.H{"Authorization": "Bearer " + token}).
		SetTimeout(10 * time.Second).
		BindJSON(&res).Do()
	if err != nil {
		zap.L().Error("reminders job request failed", zap.Error(err))
		return
	}

	var dialer *gomail.Dialer
	var sender gomail.SendCloser
	if a.appConfig.Smtp.Host != "" {
		dialer = gomail.NewDialer(a.appConfig.Smtp.Host, a.appConfig.Smtp.Port,
			a.appConfig.Smtp.Username, a.appConfig.Smtp.Password)
		sender, err = dialer.Dial()
		if err != nil {
			zap.L().Warn("smtp dial failed, reminders logged only", zap.Error(err))
			sender = nil
		} else {
			defer sender.Close()
		}
	}

	pool, err := ants.NewPool(8)
	if err != nil {
		zap.L().Error("reminders pool error", zap.Error(err))
		return
	}
	defer pool.Release()

	logPath := a.jobLogPath("order_reminders_log.txt")
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, o := range res.Data {
		if o.Customer == nil || o.Customer.Email == "" {
			continue
		}
		order := o
		wg.Add(1)
		_ = pool.Submit(func() {
			defer wg.Done()

			line := fmt.Sprintf("%s - Reminder for Order %s to %s", timestamp, order.ID, order.Customer.Email)
			mu.Lock()
			if err := common.FileAppend(logPath, line); err != nil {
				zap.L().Error("reminder log append failed", zap.Error(err))
			}
			if sender != nil {
				m := gomail.NewMessage()
				m.SetHeader("From", a.appConfig.Smtp.From)
				m.SetHeader("To", order.Customer.Email)
				m.SetHeader("Subject", fmt.Sprintf("Reminder for Order %s", order.ID))
				m.SetBody("text/plain", fmt.Sprintf("Your order %s from the last 7 days is being processed.", order.ID))
				if err := gomail.Send(sender, m); err != nil {
					zap.L().Warn("reminder mail failed", zap.String("to", order.Customer.Email), zap.Error(err))
				}
			}
			mu.Unlock()
		})
	}
	wg.Wait()
	zap.L().Info("order reminders processed", zap.Int("orders", len(res.Data)))
}

// SchedLowStockTask restocks low products through the API and logs each
// updated product.
func (a *Application) SchedLowStockTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	token, err := a.jobToken()
	if err != nil {
		zap.L().Error("low stock job token error", zap.Error(err))
		return
	}

	var res struct {
		Success bool `json:"success"`
		Data    struct {
			Success  bool `json:"success"`
			Products []struct {
				Name  string `json:"name"`
				Stock int    `json:"stock"`
			} `json:"products"`
		} `json:"data"`
	}
	err = gout.POST(a.apiURL("/api/products/restock")).
		SetHeader(gout.H{"Authorization": "Bearer " + token}).
		SetTimeout(10 * time.Second).
		BindJSON(&res).Do()
	if err != nil {
		zap.L().Error("low stock job request failed", zap.Error(err))
		return
	}

	logPath := a.jobLogPath("low_stock_updates_log.txt")
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	for _, p := range res.Data.Products {
		line := fmt.Sprintf("%s - %s updated to stock %d", timestamp, p.Name, p.Stock)
		if err := common.FileAppend(logPath, line); err != nil {
			zap.L().Error("low stock log append failed", zap.Error(err))
		}
	}
}
