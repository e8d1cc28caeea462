package output

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boxoffice/internal/model"
	"boxoffice/internal/pipeline"
)

func sampleDataset() Dataset {
	rel := time.Date(2010, time.July, 16, 0, 0, 0, 0, time.UTC)
	return Dataset{
		ID:            "20240101T000000Z",
		GeneratedAt:   time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		StartYear:     2008,
		ReferenceYear: 2024,
		Records: []model.MovieRecord{
			{Title: "Inception", Date: rel, Year: 2010, Genre: "Action", BoxOffice: 400},
			{Title: "Drive", Date: rel, Year: 2011, Genre: "Crime", BoxOffice: 200},
		},
		Stats: pipeline.Stats{
			MeanBoxOffice: 300,
			TopGenres:     []string{"Action", "Crime"},
			DateRange: pipeline.DateRange{
				Start: time.Date(2010, time.January, 1, 0, 0, 0, 0, time.UTC),
				End:   time.Date(2011, time.January, 1, 0, 0, 0, 0, time.UTC),
			},
		},
		Bands: pipeline.SeasonalBands(2008, 1),
	}
}

func TestFileSink_WritesDatasetJSON(t *testing.T) {
	dir := t.TempDir()
	sink := NewFileSink(dir)
	ds := sampleDataset()
	require.NoError(t, sink.Publish(context.Background(), ds))

	got, err := ReadDataset(sink.Path(ds.ID))
	require.NoError(t, err)
	assert.Equal(t, ds.ID, got.ID)
	assert.Len(t, got.Records, 2)
	assert.Equal(t, "Inception", got.Records[0].Title)
	assert.Equal(t, []string{"Action", "Crime"}, got.Stats.TopGenres)
	assert.Equal(t, 300.0, got.Stats.MeanBoxOffice)
	assert.True(t, ds.Stats.DateRange.End.Equal(got.Stats.DateRange.End))
	assert.Len(t, got.Bands, 2)
}

func TestReadDataset_Missing(t *testing.T) {
	_, err := ReadDataset("/nonexistent/dataset.json")
	assert.Error(t, err)
}

// fakeKafkaWriter implements kafkaMessageWriter for tests
type fakeKafkaWriter struct {
	msgs []kafka.Message
	fail bool
}

func (f *fakeKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if f.fail {
		return errors.New("fail")
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func TestKafkaSink_PublishesRecordsThenSummary(t *testing.T) {
	fk := &fakeKafkaWriter{}
	ks := NewKafkaSinkWith(fk)
	require.NoError(t, ks.Publish(context.Background(), sampleDataset()))

	require.Len(t, fk.msgs, 3)
	assert.Equal(t, "Inception", string(fk.msgs[0].Key))
	assert.Equal(t, "Drive", string(fk.msgs[1].Key))
	assert.Equal(t, SummaryKey, string(fk.msgs[2].Key))

	var rec model.MovieRecord
	require.NoError(t, json.Unmarshal(fk.msgs[0].Value, &rec))
	assert.Equal(t, 400.0, rec.BoxOffice)

	var sum Summary
	require.NoError(t, json.Unmarshal(fk.msgs[2].Value, &sum))
	assert.Equal(t, 2, sum.RecordCount)
	assert.Equal(t, "20240101T000000Z", sum.DatasetID)

	for _, m := range fk.msgs {
		require.Len(t, m.Headers, 1)
		assert.Equal(t, "20240101T000000Z", string(m.Headers[0].Value))
	}
}

func TestKafkaSink_PublishFail(t *testing.T) {
	ks := NewKafkaSinkWith(&fakeKafkaWriter{fail: true})
	assert.Error(t, ks.Publish(context.Background(), sampleDataset()))
}

func TestMultiSink_StopsAtFirstError(t *testing.T) {
	dir := t.TempDir()
	ok := &fakeKafkaWriter{}
	m := NewMultiSink(NewKafkaSinkWith(&fakeKafkaWriter{fail: true}), NewKafkaSinkWith(ok))
	err := m.Publish(context.Background(), sampleDataset())
	require.Error(t, err)
	assert.Empty(t, ok.msgs)

	both := NewMultiSink(NewFileSink(dir), NewKafkaSinkWith(ok))
	require.NoError(t, both.Publish(context.Background(), sampleDataset()))
	assert.Len(t, ok.msgs, 3)
	assert.Equal(t, "file+kafka", both.Name())
}

func TestSplitBrokers(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, SplitBrokers(" a:9092, ,b:9092 "))
	assert.Nil(t, SplitBrokers(""))
}

func TestNewDataset(t *testing.T) {
	res := pipeline.Result{
		Records: sampleDataset().Records,
		Stats:   sampleDataset().Stats,
		Bands:   pipeline.SeasonalBands(2008, 2),
	}
	cfg := pipeline.Config{StartYear: 2008, ReferenceYear: 2024, NumYears: 2}
	at := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))
	ds := NewDataset("id-1", at, cfg, res)
	assert.Equal(t, "id-1", ds.ID)
	assert.Equal(t, time.UTC, ds.GeneratedAt.Location())
	assert.Equal(t, 2024, ds.ReferenceYear)
	assert.Len(t, ds.Bands, 4)
}
