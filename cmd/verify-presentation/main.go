// Command verify-presentation starts one dashboard session in-process, checks that
// the bootstrapper applied the dashboard's DisplayConfig before anything else, and
// prints the resulting host state as JSON.
package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"insurance-dashboard/internal/app"
	"insurance-dashboard/internal/logger"
	"insurance-dashboard/internal/presentation"
	"insurance-dashboard/internal/session"

	"github.com/sirupsen/logrus"
)

type nopObserver struct{}

func (nopObserver) ConfigureResult(string) {}

func main() {
	log, err := logger.New(logger.Config{Level: "info"})
	if err != nil {
		logrus.Fatalf("[LOGGER] %v", err)
	}
	ctx := context.Background()

	sessions := session.NewRegistry(time.Minute, presentation.Bootstrap)
	svc := app.NewAppService(sessions, nopObserver{}, logger.Discard())

	res, err := svc.StartSession(ctx)
	if err != nil {
		log.Fatalf("[BOOTSTRAP] %v", err)
	}
	st := res.State
	if !st.Configured || st.Config != presentation.InsuranceSalesDashboard {
		log.WithField("config", st.Config).Fatal("[BOOTSTRAP] session not configured with the dashboard display config")
	}
	log.Info("[BOOTSTRAP] ok")

	_, err = svc.ConfigurePresentation(ctx, app.ConfigureRequest{SessionID: st.SessionID, Config: st.Config})
	if !presentation.IsConfigurationOrder(err) {
		log.WithError(err).Fatal("[ORDER] second configuration was not rejected")
	}
	log.WithFields(logrus.Fields{"error": err}).Info("[ORDER] second configuration rejected")

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(st); err != nil {
		log.Fatalf("[OUTPUT] %v", err)
	}
	log.Info("[DONE] presentation verified")
}
