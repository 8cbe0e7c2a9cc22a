package traffic

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	statscmd "github.com/arktoria/acolors/pkg/pb/v2ray/app/stats/command"
)

const pollInterval = time.Second

// Updater drives the stats polling loop against the core's API inbound.
type Updater struct {
	logger *slog.Logger
	info   *Info

	conn *grpc.ClientConn
	stop chan struct{}
	done chan struct{}
}

// NewUpdater binds the updater to the shared traffic cell.
func NewUpdater(info *Info, logger *slog.Logger) *Updater {
	if logger == nil {
		logger = slog.Default()
	}
	return &Updater{logger: logger, info: info}
}

// Start connects to the stats API at target ("host:port") and begins
// polling tag's uplink/downlink counters once per second. The initial
// connect retries for about one second before giving up.
func (u *Updater) Start(ctx context.Context, target, tag string) error {
	if u.stop != nil {
		return fmt.Errorf("traffic updater already started")
	}

	conn, err := grpc.NewClient(target,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return fmt.Errorf("connect to stats api at %s: %w", target, err)
	}
	client := statscmd.NewStatsServiceClient(conn)

	// Probe until the freshly spawned core starts answering.
	policy := backoff.WithContext(backoff.WithMaxRetries(
		backoff.NewConstantBackOff(100*time.Millisecond), 10), ctx)
	err = backoff.Retry(func() error {
		_, err := queryStat(ctx, client, tag, "uplink")
		return err
	}, policy)
	if err != nil {
		conn.Close()
		return fmt.Errorf("stats api unreachable at %s: %w", target, err)
	}

	u.conn = conn
	u.stop = make(chan struct{})
	u.done = make(chan struct{})
	go u.loop(client, tag)

	return nil
}

// Stop cancels the polling loop; the poller exits within one tick.
func (u *Updater) Stop() error {
	if u.stop == nil {
		return fmt.Errorf("traffic updater not started")
	}
	close(u.stop)
	<-u.done
	u.conn.Close()
	u.stop = nil
	u.done = nil
	u.conn = nil
	return nil
}

// Running reports whether the loop is active.
func (u *Updater) Running() bool {
	return u.stop != nil
}

func (u *Updater) loop(client statscmd.StatsServiceClient, tag string) {
	defer close(u.done)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-u.stop:
			return
		case <-ticker.C:
		}

		ctx, cancel := context.WithTimeout(context.Background(), pollInterval)
		upload, upErr := queryStat(ctx, client, tag, "uplink")
		download, downErr := queryStat(ctx, client, tag, "downlink")
		cancel()

		if upErr != nil || downErr != nil {
			u.logger.Debug("traffic stats query failed",
				"uplink_error", upErr, "downlink_error", downErr)
			continue
		}
		u.info.set(upload, download)
	}
}

func queryStat(ctx context.Context, client statscmd.StatsServiceClient, tag, direction string) (int64, error) {
	resp, err := client.GetStats(ctx, &statscmd.GetStatsRequest{
		Name:   fmt.Sprintf("outbound>>>%s>>>traffic>>>%s", tag, direction),
		Reset_: false,
	})
	if err != nil {
		return 0, err
	}
	return resp.GetStat().GetValue(), nil
}
