package resume

import (
	"context"
	"github.com/maxaizer/recruitment-funnel/internal/domain/models"
	"golang.org/x/sync/errgroup"
	"iter"
	"sort"
	"strings"
)

// MatchCount counts the skills present as a word. empty reports a document without words.
func MatchCount(skills []string, words iter.Seq[string]) (count int, empty bool) {
	tokens := make(map[string]struct{})
	for word := range words {
		tokens[word] = struct{}{}
	}

	for _, skill := range skills {
		if _, ok := tokens[strings.ToLower(skill)]; ok {
			count++
		}
	}
	return count, len(tokens) == 0
}

// Order puts unclaimed résumés before claimed ones, each group by match count descending.
// Ties keep their input order.
func Order(ranked []models.RankedResume) []models.RankedResume {
	unclaimed := make([]models.RankedResume, 0, len(ranked))
	var claimed []models.RankedResume
	for _, item := range ranked {
		if item.Resume.Claimed {
			claimed = append(claimed, item)
		} else {
			unclaimed = append(unclaimed, item)
		}
	}

	byCount := func(items []models.RankedResume) {
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].MatchCount > items[j].MatchCount
		})
	}
	byCount(unclaimed)
	byCount(claimed)

	return append(unclaimed, claimed...)
}

type Ranker struct {
	workers int
}

func NewRanker(workers int) *Ranker {
	if workers < 1 {
		workers = 1
	}
	return &Ranker{workers: workers}
}

// Rank scores every résumé against the skills on a bounded worker pool and orders them
// once all scores are in.
func (r *Ranker) Rank(ctx context.Context, skills []string, resumes []models.Resume) ([]models.RankedResume, error) {
	ranked := make([]models.RankedResume, len(resumes))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(r.workers)

	for i, resume := range resumes {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			count, empty := MatchCount(skills, Open(resume.Content).Words())
			ranked[i] = models.RankedResume{Resume: resume, MatchCount: count, ScannedImage: empty}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return Order(ranked), nil
}
