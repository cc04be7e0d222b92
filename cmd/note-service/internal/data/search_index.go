package data

import (
	"context"
	"fmt"
	"strconv"

	"notehub/cmd/note-service/internal/conf"
	"notehub/cmd/note-service/internal/domain"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/go-kratos/kratos/v2/log"
)

// BleveSearchIndex 基于 bleve 的嵌入式全文索引
//
// 文档以 noteID 的十进制串作为 docID，存储 title 和 content_summary
// 两个文本字段。match 查询按引擎相关性倒序返回。
type BleveSearchIndex struct {
	index bleve.Index
}

// NewBleveSearchIndex 打开或创建索引
func NewBleveSearchIndex(indexPath string) (*BleveSearchIndex, error) {
	index, err := bleve.Open(indexPath)
	if err == bleve.ErrorIndexPathDoesNotExist {
		index, err = bleve.New(indexPath, buildIndexMapping())
	}
	if err != nil {
		return nil, fmt.Errorf("open search index %s: %w", indexPath, err)
	}
	return &BleveSearchIndex{index: index}, nil
}

// NewSearchIndex 创建全文索引（wire 入口）
func NewSearchIndex(cfg *conf.Config, logger log.Logger) (domain.SearchIndex, func(), error) {
	idx, err := NewBleveSearchIndex(cfg.Search.IndexPath)
	if err != nil {
		return nil, nil, err
	}

	logHelper := log.NewHelper(logger)
	logHelper.Infof("search index opened: path=%s", cfg.Search.IndexPath)

	cleanup := func() {
		if err := idx.Close(); err != nil {
			logHelper.Errorf("close search index: %v", err)
		}
	}
	return idx, cleanup, nil
}

// buildIndexMapping 笔记文档的索引映射
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()

	noteMapping := bleve.NewDocumentMapping()

	titleField := bleve.NewTextFieldMapping()
	titleField.Store = true
	noteMapping.AddFieldMappingsAt(domain.SearchFieldTitle, titleField)

	summaryField := bleve.NewTextFieldMapping()
	summaryField.Store = true
	noteMapping.AddFieldMappingsAt(domain.SearchFieldContentSummary, summaryField)

	indexMapping.DefaultMapping = noteMapping
	return indexMapping
}

// FetchByIDs 按ID集合取文档，索引里没有的ID静默丢弃
func (b *BleveSearchIndex) FetchByIDs(ctx context.Context, noteIDs []int64) ([]*domain.SearchDocument, error) {
	if len(noteIDs) == 0 {
		return nil, nil
	}

	docIDs := make([]string, len(noteIDs))
	for i, id := range noteIDs {
		docIDs[i] = strconv.FormatInt(id, 10)
	}

	req := bleve.NewSearchRequest(bleve.NewDocIDQuery(docIDs))
	req.Size = len(docIDs)
	req.Fields = []string{domain.SearchFieldTitle, domain.SearchFieldContentSummary}

	res, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search index fetch by ids: %w", err)
	}

	docs := make([]*domain.SearchDocument, 0, len(res.Hits))
	for _, hit := range res.Hits {
		doc, err := b.toDocument(hit.ID, hit.Fields)
		if err != nil {
			// 非法 docID 不应该出现在这个索引里，跳过
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// MatchQuery 多字段加权匹配，每个字段一个带 boost 的 match 子查询取并集
func (b *BleveSearchIndex) MatchQuery(ctx context.Context, text string, weights map[string]float64, limit int) ([]*domain.ScoredDocument, error) {
	subQueries := make([]query.Query, 0, len(weights))
	for field, boost := range weights {
		mq := bleve.NewMatchQuery(text)
		mq.SetField(field)
		mq.SetBoost(boost)
		subQueries = append(subQueries, mq)
	}

	req := bleve.NewSearchRequest(bleve.NewDisjunctionQuery(subQueries...))
	req.Size = limit
	req.Fields = []string{domain.SearchFieldTitle, domain.SearchFieldContentSummary}

	res, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search index match query: %w", err)
	}

	hits := make([]*domain.ScoredDocument, 0, len(res.Hits))
	for _, hit := range res.Hits {
		doc, err := b.toDocument(hit.ID, hit.Fields)
		if err != nil {
			continue
		}
		hits = append(hits, &domain.ScoredDocument{
			SearchDocument: *doc,
			Relevance:      hit.Score,
		})
	}
	return hits, nil
}

// IndexNote 写入或更新文档
func (b *BleveSearchIndex) IndexNote(ctx context.Context, doc *domain.SearchDocument) error {
	id := strconv.FormatInt(doc.NoteID, 10)
	fields := map[string]interface{}{
		domain.SearchFieldTitle:          doc.Title,
		domain.SearchFieldContentSummary: doc.ContentSummary,
	}
	if err := b.index.Index(id, fields); err != nil {
		return fmt.Errorf("index note %d: %w", doc.NoteID, err)
	}
	return nil
}

// RemoveNote 删除文档
func (b *BleveSearchIndex) RemoveNote(ctx context.Context, noteID int64) error {
	id := strconv.FormatInt(noteID, 10)
	if err := b.index.Delete(id); err != nil {
		return fmt.Errorf("remove note %d from index: %w", noteID, err)
	}
	return nil
}

// Close 关闭索引
func (b *BleveSearchIndex) Close() error {
	return b.index.Close()
}

// toDocument 命中 → 文档，docID 解析回 noteID
func (b *BleveSearchIndex) toDocument(docID string, fields map[string]interface{}) (*domain.SearchDocument, error) {
	noteID, err := strconv.ParseInt(docID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed doc id %q: %w", docID, err)
	}
	doc := &domain.SearchDocument{NoteID: noteID}
	if title, ok := fields[domain.SearchFieldTitle].(string); ok {
		doc.Title = title
	}
	if summary, ok := fields[domain.SearchFieldContentSummary].(string); ok {
		doc.ContentSummary = summary
	}
	return doc, nil
}
