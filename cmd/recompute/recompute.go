package recompute

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/flowstate/flowstate-backend/config"
	"github.com/flowstate/flowstate-backend/internal/repository"
	"github.com/flowstate/flowstate-backend/internal/service/coreevent"
	"github.com/flowstate/flowstate-backend/internal/service/stats"
	"github.com/flowstate/flowstate-backend/pkg/utils"
	"github.com/spf13/cobra"
)

// GetRecomputeCmd rebuilds period stats and core events from stored
// sessions, for backfills after schema changes or scoring tweaks.
func GetRecomputeCmd(cfg *config.Config) *cobra.Command {
	var dateStr, fromStr, toStr string

	recomputeCmd := &cobra.Command{
		Use:   "recompute",
		Short: "Recompute period stats and core events from stored sessions",
		Run: func(cmd *cobra.Command, args []string) {
			utils.SetTrackerLocation(cfg.Tracker.Timezone)

			db, err := repository.NewRepository(cfg.DB)
			if err != nil {
				log.Fatal("❌ Failed to connect to database:", err)
			}
			defer db.Close()

			sessionRepo := repository.NewSessionRepository(db)
			dailyRepo := repository.NewDailyStatRepository(db)
			periodRepo := repository.NewPeriodStatRepository(db)
			coreEventRepo := repository.NewCoreEventRepository(db)

			statsSrv := stats.NewService(sessionRepo, dailyRepo, periodRepo, nil)
			coreEventSrv := coreevent.NewService(sessionRepo, coreEventRepo)

			from, to, err := resolveRange(dateStr, fromStr, toStr)
			if err != nil {
				log.Fatal("❌ ", err)
			}

			ctx := context.Background()

			recomputed, failed, err := statsSrv.RecomputeRange(ctx, from, to)
			if err != nil {
				log.Fatal("❌ Failed to recompute stats:", err)
			}

			extracted := 0
			for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
				if _, err := coreEventSrv.ExtractDay(ctx, d); err != nil {
					failed = append(failed, utils.FormatDate(d))
					continue
				}
				extracted++
			}

			fmt.Printf("✅ Recomputed %d day(s), extracted core events for %d day(s)\n", recomputed, extracted)
			if len(failed) > 0 {
				fmt.Printf("⚠️ Failed dates: %v\n", failed)
			}
		},
	}

	recomputeCmd.Flags().StringVar(&dateStr, "date", "", "Single date to recompute (YYYY-MM-DD)")
	recomputeCmd.Flags().StringVar(&fromStr, "from", "", "Range start (YYYY-MM-DD)")
	recomputeCmd.Flags().StringVar(&toStr, "to", "", "Range end (YYYY-MM-DD)")

	return recomputeCmd
}

func resolveRange(dateStr, fromStr, toStr string) (time.Time, time.Time, error) {
	if dateStr != "" {
		d, err := utils.ParseDate(dateStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --date: %w", err)
		}
		return d, d, nil
	}

	if fromStr == "" || toStr == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("either --date or both --from and --to are required")
	}

	from, err := utils.ParseDate(fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --from: %w", err)
	}
	to, err := utils.ParseDate(toStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --to: %w", err)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("--to must not be before --from")
	}

	return from, to, nil
}
