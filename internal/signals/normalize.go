package signals

import (
	"github.com/trendscope/trendscope/internal/decline"
	"github.com/trendscope/trendscope/internal/domain"
	"github.com/trendscope/trendscope/internal/providers"
)

// rollingWindow is the number of trailing interest points used for the
// rolling mean and decay estimation
const rollingWindow = 7

// Normalize folds raw collaborator payloads into the unified feature vector
// and the recent-vs-baseline window comparison. Fields whose source is absent
// stay nil; no value is ever imputed.
func Normalize(series []providers.InterestPoint, activity []*providers.ActivityWindows) (domain.FeatureVector, decline.WindowComparison) {
	var fv domain.FeatureVector
	var cmp decline.WindowComparison

	if len(series) > 0 {
		score := series[len(series)-1].Score
		fv.InterestScore = &score

		slope := seriesSlope(series)
		fv.InterestSlope = &slope

		mean := rollingMean(series, rollingWindow)
		fv.RollingMeanInterest = &mean

		decay := decaySignal(series, slope)
		fv.DecaySignal = &decay
	}

	if len(activity) > 0 {
		normalizeActivity(&fv, activity)
		cmp = windowComparison(activity)
	}

	return fv, cmp
}

// normalizeActivity derives the activity-side features from all reporting
// platforms combined
func normalizeActivity(fv *domain.FeatureVector, activity []*providers.ActivityWindows) {
	var recent, baseline providers.ActivitySample
	recentDays, baselineDays := 0, 0

	for _, w := range activity {
		recent.Posts += w.Recent.Posts
		recent.Comments += w.Recent.Comments
		recent.Engagements += w.Recent.Engagements
		recent.Creators += w.Recent.Creators
		recent.Diversity += w.Recent.Diversity
		baseline.Posts += w.Baseline.Posts
		baseline.Comments += w.Baseline.Comments
		baseline.Engagements += w.Baseline.Engagements
		baseline.Creators += w.Baseline.Creators
		baseline.Diversity += w.Baseline.Diversity
		if w.RecentDays > recentDays {
			recentDays = w.RecentDays
		}
		if w.BaselineDays > baselineDays {
			baselineDays = w.BaselineDays
		}
	}
	if recentDays == 0 {
		recentDays = rollingWindow
	}
	if baselineDays == 0 {
		baselineDays = rollingWindow
	}

	posts := recent.Posts
	fv.PostVolume = &posts
	comments := recent.Comments
	fv.CommentCount = &comments

	rate := 0.0
	if recent.Posts > 0 {
		rate = recent.Engagements / float64(recent.Posts)
	}
	fv.EngagementRate = &rate

	velocity := float64(recent.Posts)/float64(recentDays) - float64(baseline.Posts)/float64(baselineDays)
	fv.Velocity = &velocity

	growth := growthPercent(float64(recent.Posts), float64(baseline.Posts))
	fv.GrowthRate = &growth

	discussion := growthPercent(float64(recent.Comments), float64(baseline.Comments))
	fv.DiscussionGrowthRate = &discussion

	momentum := growthPercent(recent.Engagements, baseline.Engagements)
	fv.Momentum = &momentum

	saturation := engagementSaturation(growth, momentum)
	fv.EngagementSaturation = &saturation
}

// windowComparison builds the decline analyzer's input from all platforms
func windowComparison(activity []*providers.ActivityWindows) decline.WindowComparison {
	var cmp decline.WindowComparison
	recentDays, baselineDays := 0, 0

	for _, w := range activity {
		cmp.Recent.Engagement += w.Recent.Engagements
		cmp.Recent.Creators += float64(w.Recent.Creators)
		cmp.Baseline.Engagement += w.Baseline.Engagements
		cmp.Baseline.Creators += float64(w.Baseline.Creators)
		if w.RecentDays > recentDays {
			recentDays = w.RecentDays
		}
		if w.BaselineDays > baselineDays {
			baselineDays = w.BaselineDays
		}
	}
	if recentDays == 0 {
		recentDays = rollingWindow
	}
	if baselineDays == 0 {
		baselineDays = rollingWindow
	}

	var recentPosts, baselinePosts int
	for _, w := range activity {
		recentPosts += w.Recent.Posts
		baselinePosts += w.Baseline.Posts
	}
	cmp.Recent.Velocity = float64(recentPosts) / float64(recentDays)
	cmp.Baseline.Velocity = float64(baselinePosts) / float64(baselineDays)

	// Diversity averages across platforms rather than summing: it is a 0-1
	// proxy, not a count.
	n := float64(len(activity))
	for _, w := range activity {
		cmp.Recent.Diversity += w.Recent.Diversity / n
		cmp.Baseline.Diversity += w.Baseline.Diversity / n
	}

	return cmp
}

// seriesSlope is the least-squares slope of the interest series in points per
// day, using the point index as the time axis
func seriesSlope(series []providers.InterestPoint) float64 {
	n := float64(len(series))
	if n < 2 {
		return 0
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, p := range series {
		x := float64(i)
		sumX += x
		sumY += p.Score
		sumXY += x * p.Score
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}

// rollingMean averages the last window points of the series
func rollingMean(series []providers.InterestPoint, window int) float64 {
	start := len(series) - window
	if start < 0 {
		start = 0
	}
	tail := series[start:]

	var sum float64
	for _, p := range tail {
		sum += p.Score
	}
	return sum / float64(len(tail))
}

// decaySignal scores sustained interest loss on a 0-1 scale by combining the
// fraction of declining steps in the trailing window with the negative slope
// magnitude
func decaySignal(series []providers.InterestPoint, slope float64) float64 {
	start := len(series) - rollingWindow
	if start < 0 {
		start = 0
	}
	tail := series[start:]

	declining := 0
	for i := 1; i < len(tail); i++ {
		if tail[i].Score < tail[i-1].Score {
			declining++
		}
	}
	fracDown := 0.0
	if len(tail) > 1 {
		fracDown = float64(declining) / float64(len(tail)-1)
	}

	negSlope := 0.0
	if slope < 0 {
		// A drop of 5 interest points per day saturates the slope component.
		negSlope = -slope / 5
		if negSlope > 1 {
			negSlope = 1
		}
	}

	decay := 0.6*fracDown + 0.4*negSlope
	if decay > 1 {
		decay = 1
	}
	return decay
}

// growthPercent is the relative change of recent vs baseline in percent. A
// zero baseline with recent activity reads as +100%; with neither it is 0.
func growthPercent(recent, baseline float64) float64 {
	if baseline <= 0 {
		if recent > 0 {
			return 100
		}
		return 0
	}
	return 100 * (recent - baseline) / baseline
}

// engagementSaturation approximates audience fatigue: post volume growing
// faster than engagement reads as saturation approaching 1
func engagementSaturation(postGrowth, engagementGrowth float64) float64 {
	if postGrowth <= 0 {
		return 0
	}
	sat := 1 - engagementGrowth/postGrowth
	if sat < 0 {
		return 0
	}
	if sat > 1 {
		return 1
	}
	return sat
}
