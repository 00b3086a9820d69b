package monitoring

import (
	"time"

	"github.com/IgorPchelyakov/streamflow-backend/internal/core/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusCollector struct {
	// Counters
	joinTokensIssuedTotal  prometheus.Counter
	chatMessagesSentTotal  prometheus.Counter
	chatMessagesRejected   *prometheus.CounterVec
	accountsCreatedTotal   prometheus.Counter
	accountsDeactivatedTot prometheus.Counter

	// Gauges
	streamsLiveTotal     prometheus.Gauge
	chatViewersConnected *prometheus.GaugeVec

	// Histograms
	requestDuration *prometheus.HistogramVec
}

func NewPrometheusCollector() *PrometheusCollector {
	return &PrometheusCollector{
		joinTokensIssuedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "streamflow_join_tokens_issued_total",
			Help: "Total number of media join tokens issued",
		}),

		chatMessagesSentTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "streamflow_chat_messages_sent_total",
			Help: "Total number of chat messages persisted",
		}),

		chatMessagesRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "streamflow_chat_messages_rejected_total",
			Help: "Total number of chat messages rejected",
		}, []string{"reason"}),

		accountsCreatedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "streamflow_accounts_created_total",
			Help: "Total number of accounts registered",
		}),

		accountsDeactivatedTot: promauto.NewCounter(prometheus.CounterOpts{
			Name: "streamflow_accounts_deactivated_total",
			Help: "Total number of accounts deactivated",
		}),

		streamsLiveTotal: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "streamflow_streams_live_total",
			Help: "Number of streams currently live",
		}),

		chatViewersConnected: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "streamflow_chat_viewers_connected",
			Help: "Number of websocket chat viewers per stream",
		}, []string{"stream_id"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "streamflow_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		}, []string{"method", "path", "status"}),
	}
}

func (p *PrometheusCollector) RecordJoinTokenIssued() {
	p.joinTokensIssuedTotal.Inc()
}

func (p *PrometheusCollector) RecordChatMessageSent() {
	p.chatMessagesSentTotal.Inc()
}

func (p *PrometheusCollector) RecordChatMessageRejected(reason string) {
	p.chatMessagesRejected.WithLabelValues(reason).Inc()
}

func (p *PrometheusCollector) RecordAccountCreated() {
	p.accountsCreatedTotal.Inc()
}

func (p *PrometheusCollector) RecordAccountDeactivated() {
	p.accountsDeactivatedTot.Inc()
}

func (p *PrometheusCollector) RecordStreamLiveChange(live bool) {
	if live {
		p.streamsLiveTotal.Inc()
	} else {
		p.streamsLiveTotal.Dec()
	}
}

func (p *PrometheusCollector) RecordChatViewerConnected(streamID domain.StreamID) {
	p.chatViewersConnected.WithLabelValues(string(streamID)).Inc()
}

func (p *PrometheusCollector) RecordChatViewerDisconnected(streamID domain.StreamID) {
	p.chatViewersConnected.WithLabelValues(string(streamID)).Dec()
}

func (p *PrometheusCollector) RecordRequestDuration(method, path, status string, duration time.Duration) {
	p.requestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}
