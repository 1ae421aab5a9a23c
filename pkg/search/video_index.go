// Package search keeps an Elasticsearch index of video titles and descriptions for free-text queries.
package search

import (
	"context"
	"strconv"
	"time"

	"VideoTube.com/cmd/model"
	"github.com/olivere/elastic/v7"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// VideoIndex 视频全文检索, 返回命中的视频ID
type VideoIndex interface {
	IndexVideo(ctx context.Context, video *model.Video) error
	RemoveVideo(ctx context.Context, videoId int64) error
	SearchVideoIds(ctx context.Context, query string, limit int) ([]int64, error)
}

const videoMapping = `{
  "mappings": {
    "properties": {
      "video_id":     {"type": "long"},
      "uploader_id":  {"type": "long"},
      "title":        {"type": "text"},
      "description":  {"type": "text"},
      "is_published": {"type": "boolean"},
      "created_at":   {"type": "date"}
    }
  }
}`

type videoDoc struct {
	VideoId     int64     `json:"video_id"`
	UploaderId  int64     `json:"uploader_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
}

func toDoc(v *model.Video) videoDoc {
	return videoDoc{
		VideoId:     v.VideoId,
		UploaderId:  v.UploaderId,
		Title:       v.Title,
		Description: v.Description,
		IsPublished: v.IsPublished,
		CreatedAt:   v.CreatedAt,
	}
}

type ElasticIndex struct {
	client *elastic.Client
	index  string
}

func NewElasticIndex(ctx context.Context, url, index string) (*ElasticIndex, error) {
	client, err := elastic.NewClient(
		elastic.SetURL(url),
		elastic.SetSniff(false),
		elastic.SetHealthcheckInterval(30*time.Second),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create elasticsearch client")
	}
	exists, err := client.IndexExists(index).Do(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "check index %s", index)
	}
	if !exists {
		if _, err = client.CreateIndex(index).BodyString(videoMapping).Do(ctx); err != nil {
			return nil, errors.Wrapf(err, "create index %s", index)
		}
		logrus.WithField("index", index).Info("elasticsearch index created")
	}
	return &ElasticIndex{client: client, index: index}, nil
}

func (e *ElasticIndex) IndexVideo(ctx context.Context, video *model.Video) error {
	_, err := e.client.Index().
		Index(e.index).
		Id(strconv.FormatInt(video.VideoId, 10)).
		BodyJson(toDoc(video)).
		Do(ctx)
	return errors.Wrapf(err, "index video %d", video.VideoId)
}

func (e *ElasticIndex) RemoveVideo(ctx context.Context, videoId int64) error {
	_, err := e.client.Delete().Index(e.index).Id(strconv.FormatInt(videoId, 10)).Do(ctx)
	if err != nil && !elastic.IsNotFound(err) {
		return errors.Wrapf(err, "remove video %d", videoId)
	}
	return nil
}

// SearchVideoIds 标题与描述上的 multi_match 查询
func (e *ElasticIndex) SearchVideoIds(ctx context.Context, query string, limit int) ([]int64, error) {
	res, err := e.client.Search().
		Index(e.index).
		Query(elastic.NewMultiMatchQuery(query, "title", "description")).
		Size(limit).
		FetchSource(false).
		Do(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "search %q", query)
	}
	return hitIds(res.Hits.Hits), nil
}

func hitIds(hits []*elastic.SearchHit) []int64 {
	ids := make([]int64, 0, len(hits))
	for _, hit := range hits {
		if id, err := strconv.ParseInt(hit.Id, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}
