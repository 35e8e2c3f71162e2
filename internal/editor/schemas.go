package editor

import "github.com/alternativa-centar/site/types"

// NewsSchema maps articles to the news form. New articles start
// unpublished.
var NewsSchema = Schema[types.NewsArticle, types.NewsInput]{
	ID: func(a types.NewsArticle) string { return a.ID },
	FormOf: func(a types.NewsArticle) types.NewsInput {
		date := a.PublishDate
		return types.NewsInput{
			Title:       a.Title,
			Content:     a.Content,
			Image:       a.Image,
			Published:   a.Published,
			PublishDate: &date,
		}
	},
	Blank: func([]types.NewsArticle) types.NewsInput {
		return types.NewsInput{}
	},
}

// TeamSchema maps members to the team form. New members default to the
// position after the current last one.
var TeamSchema = Schema[types.TeamMember, types.TeamMemberInput]{
	ID: func(m types.TeamMember) string { return m.ID },
	FormOf: func(m types.TeamMember) types.TeamMemberInput {
		order := m.Order
		return types.TeamMemberInput{
			Name:      m.Name,
			Position:  m.Position,
			Image:     m.Image,
			Biography: m.Biography,
			Order:     &order,
		}
	},
	Blank: func(members []types.TeamMember) types.TeamMemberInput {
		next := 1
		for _, m := range members {
			if m.Order >= next {
				next = m.Order + 1
			}
		}
		return types.TeamMemberInput{Order: &next}
	},
}
