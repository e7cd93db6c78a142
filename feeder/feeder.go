package feeder

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
)

// DefaultFeedURL 은 채널 업로드 Atom 피드 주소다. channel_id 쿼리로 채널을 지정한다.
const DefaultFeedURL = "https://www.youtube.com/feeds/videos.xml"

type UploadItem struct {
	VideoID      string
	Title        string
	Link         string
	ChannelTitle string
	Thumbnail    string
	PublishedAt  time.Time
}

// Feeder 는 YouTube 채널의 공개 업로드 피드를 읽는다. API 쿼터를 소모하지 않는다.
type Feeder struct {
	parser  *gofeed.Parser
	feedURL string
}

// New 는 주어진 http.Client 로 피드를 읽는 Feeder 를 생성한다. feedURL 이 비어 있으면 DefaultFeedURL.
func New(httpClient *http.Client, feedURL string) *Feeder {
	fp := gofeed.NewParser()
	if httpClient != nil {
		fp.Client = httpClient
	}
	if feedURL == "" {
		feedURL = DefaultFeedURL
	}
	return &Feeder{parser: fp, feedURL: feedURL}
}

// FetchChannelUploads 는 채널의 최근 업로드 목록을 가져온다.
// If limit is greater than 0, it returns only the first limit items.
func (f *Feeder) FetchChannelUploads(ctx context.Context, channelID string, limit int) ([]UploadItem, error) {
	u, err := url.Parse(f.feedURL)
	if err != nil {
		return nil, fmt.Errorf("invalid feed url: %w", err)
	}
	q := u.Query()
	q.Set("channel_id", channelID)
	u.RawQuery = q.Encode()

	feed, err := f.parser.ParseURLWithContext(u.String(), ctx)
	if err != nil {
		return nil, err
	}

	items := make([]UploadItem, 0, len(feed.Items))
	for _, item := range feed.Items {
		var published time.Time
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			published = *item.UpdatedParsed
		}

		up := UploadItem{
			VideoID:     extensionValue(item.Extensions, "yt", "videoId"),
			Title:       item.Title,
			Link:        item.Link,
			Thumbnail:   mediaThumbnail(item.Extensions),
			PublishedAt: published,
		}
		if up.VideoID == "" {
			up.VideoID = strings.TrimPrefix(item.GUID, "yt:video:")
		}
		if len(item.Authors) > 0 && item.Authors[0] != nil {
			up.ChannelTitle = item.Authors[0].Name
		} else if feed.Title != "" {
			up.ChannelTitle = feed.Title
		}
		items = append(items, up)
	}

	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	return items, nil
}

func extensionValue(e ext.Extensions, ns, name string) string {
	if e == nil {
		return ""
	}
	if vals := e[ns][name]; len(vals) > 0 {
		return vals[0].Value
	}
	return ""
}

// mediaThumbnail 은 <media:group><media:thumbnail url="..."/></media:group> 에서 URL 을 꺼낸다.
func mediaThumbnail(e ext.Extensions) string {
	if e == nil {
		return ""
	}
	groups := e["media"]["group"]
	if len(groups) == 0 {
		return ""
	}
	if thumbs := groups[0].Children["thumbnail"]; len(thumbs) > 0 {
		return thumbs[0].Attrs["url"]
	}
	return ""
}
