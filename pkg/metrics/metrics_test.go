package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a dedicated registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created with defaults", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "huddle")
				So(manager.subsystem, ShouldEqual, "plays")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("feed"),
				WithHistogramBuckets([]float64{1, 10, 100}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the options should be applied", func() {
				So(manager.namespace, ShouldEqual, "test")
				So(manager.subsystem, ShouldEqual, "feed")
				So(manager.histogramBuckets, ShouldResemble, []float64{1, 10, 100})
			})

			Convey("And the metrics should be registered on that registry", func() {
				manager.providerRequests.WithLabelValues("sleeper", OutcomePlays).Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)

				found := false
				for _, f := range families {
					if f.GetName() == "test_feed_provider_requests_total" {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When empty options are passed", func() {
			manager := NewManager(
				WithNamespace(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "huddle")
				So(len(manager.histogramBuckets), ShouldBeGreaterThan, 0)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording provider attempts", func() {
			before := testutil.ToFloat64(globalManager.providerRequests.WithLabelValues("pyespn", OutcomeEmpty))
			RecordProviderRequest("pyespn", OutcomeEmpty)
			RecordProviderRequest("pyespn", OutcomeEmpty)

			Convey("Then the labelled counter should advance", func() {
				after := testutil.ToFloat64(globalManager.providerRequests.WithLabelValues("pyespn", OutcomeEmpty))
				So(after-before, ShouldEqual, 2)
			})
		})

		Convey("When updating gauges", func() {
			UpdateTrackedGames(4)
			UpdateQueueCapacity(128)
			UpdateCacheEntries("pyespn", 7)

			Convey("Then the gauges hold the latest value", func() {
				So(testutil.ToFloat64(globalManager.trackedGames), ShouldEqual, 4)
				So(testutil.ToFloat64(globalManager.queueCapacity), ShouldEqual, 128)
				So(testutil.ToFloat64(globalManager.cacheEntries.WithLabelValues("pyespn")), ShouldEqual, 7)
			})
		})

		Convey("When recording every helper", func() {
			Convey("Then none of them should panic", func() {
				So(func() {
					RecordProviderLatency("sleeper", 12)
					RecordUpstreamRetry("sportsdataio")
					RecordLoad("served")
					RecordPlaysNormalized(120)
					RecordCacheHit("pyespn")
					RecordCacheMiss("pyespn")
					RecordCacheEviction("pyespn")
					RecordRefreshJob("silent", "ok")
					RecordRefreshSkipped()
					RecordRefreshLatency(40)
					UpdateSnapshotCount(2)
					RecordSnapshotUpdate()
					UpdateQueueSize(1)
					UpdateQueueUtilization(0.1)
					RecordQueueEnqueue()
					RecordQueueDequeue()
					RecordQueueEnqueueError()
					UpdateWorkerActiveCount(2)
					UpdateWorkerJobsPerSecond(1.5)
					RecordWorkerProcessingLatency(30)
					RecordWorkerError()
					UpdateLiveSubscribers(3)
					RecordLiveMessage()
					RecordLiveDropped()
					RecordStreamPublished()
					RecordStreamPublishError()
					RecordHTTPRequest("plays", "GET", "200")
					RecordHTTPRequestDuration("plays", "GET", "200", 15)
					RecordErrorByComponent("queue", "queue_full")
					RecordErrorByType("server_error", "high")
					RecordErrorByEndpoint("plays", "GET", "server_error")
					UpdateSystemMemoryUsage(1 << 20)
					UpdateSystemGoroutineCount(12)
					RecordSystemGCPauseTime(0.4)
				}, ShouldNotPanic)
			})
		})

		Convey("When gathering from the custom registry", func() {
			families, err := GetRegistry().Gather()

			Convey("Then the service metrics should be present", func() {
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})
	})
}
