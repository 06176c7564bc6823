package logging

import (
	"log"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// influxDBLogger logs the output to an external InfluxDB instance. Every
// point is tagged with the session it belongs to.
type influxDBLogger struct {
	client      influxdb2.Client
	asyncWriter api.WriteAPI
	sessionID   string
}

func NewInfluxDBLogger(baseURL, authToken, org, bucket, sessionID string) *influxDBLogger {
	options := influxdb2.DefaultOptions()
	options.WriteOptions().SetBatchSize(100)
	options.WriteOptions().SetFlushInterval(1000)

	client := influxdb2.NewClientWithOptions(baseURL, authToken, options)
	writeAPI := client.WriteAPI(org, bucket)

	// Create a goroutine for reading and logging async write errors.
	errorsCh := writeAPI.Errors()
	go func() {
		for err := range errorsCh {
			log.Printf("influxdb2 logging async write error: %v\n", err)
		}
	}()

	return &influxDBLogger{
		client:      client,
		asyncWriter: writeAPI,
		sessionID:   sessionID,
	}
}

func (l *influxDBLogger) point(measurement string) *write.Point {
	return influxdb2.NewPointWithMeasurement(measurement).
		AddTag("session", l.sessionID).
		SetTime(time.Now())
}

func (l *influxDBLogger) LogSessionToggled(running bool, reactions int, errorCount int) {
	p := l.point("reaction_session").
		AddField("running", running).
		AddField("reactions", reactions).
		AddField("errors", errorCount)
	l.asyncWriter.WritePoint(p)
}

func (l *influxDBLogger) LogStimulusScheduled(delay time.Duration) {
	p := l.point("reaction_stimulus_delay").
		AddField("ms", float64(delay)/float64(time.Millisecond))
	l.asyncWriter.WritePoint(p)
}

func (l *influxDBLogger) LogReaction(reactionMs float64) {
	p := l.point("reaction_time").
		AddField("ms", reactionMs)
	l.asyncWriter.WritePoint(p)
}

func (l *influxDBLogger) LogPrematureResponse(errorCount int) {
	p := l.point("reaction_error").
		AddField("errors", errorCount)
	l.asyncWriter.WritePoint(p)
}

func (l *influxDBLogger) LogAggregateReactions(p50 float64, p75 float64, p95 float64) {
	p := l.point("reaction_time_aggregate").
		AddField("p50", p50).
		AddField("p75", p75).
		AddField("p95", p95)
	l.asyncWriter.WritePoint(p)
}

// Close flushes pending points and closes the client.
func (l *influxDBLogger) Close() {
	l.asyncWriter.Flush()
	l.client.Close()
}
