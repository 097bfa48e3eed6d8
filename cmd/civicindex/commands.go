package main

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/civicindex/events"
	"github.com/katalvlaran/civicindex/index"
	"github.com/katalvlaran/civicindex/infer"
	"github.com/katalvlaran/civicindex/request"
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid request id %q", s)
	}
	return id, nil
}

func userCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "user <owner-id>",
		Short: "Build one user's indexes and list their requests",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ix, err := a.builder().BuildIndexes(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			reqs := make([]*request.Request, 0, ix.Tree.Len())
			for _, r := range ix.Tree.All() {
				reqs = append(reqs, r)
			}
			if a.json() {
				return printJSON(cmd.OutOrStdout(), reqs)
			}
			renderRequests(cmd.OutOrStdout(), reqs)
			return nil
		},
	}
}

func usersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "users <owner-id>...",
		Short: "Build indexes for several users in parallel and summarise them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := a.builder().BuildForUsers(cmd.Context(), args)
			if err != nil {
				return err
			}
			rows := make([]userSummary, 0, len(all))
			for _, owner := range args {
				ix := all[owner]
				s := userSummary{Owner: owner, Requests: ix.Tree.Len()}
				for _, r := range ix.ByID.All() {
					if slices.Contains(openStatuses, r.Status) {
						s.Open++
					}
				}
				if _, r, ok := ix.Queue.Peek(); ok {
					s.MostUrgent = r.TrackingCode
				}
				rows = append(rows, s)
			}
			if a.json() {
				return printJSON(cmd.OutOrStdout(), rows)
			}
			renderUserSummaries(cmd.OutOrStdout(), rows)
			return nil
		},
	}
}

func globalCmd(a *app) *cobra.Command {
	var (
		statuses []string
		category string
	)
	cmd := &cobra.Command{
		Use:   "global",
		Short: "Build the system-wide indexes and list requests with their clusters",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := parseStatuses(statuses)
			if err != nil {
				return err
			}
			gx, err := a.builder().BuildGlobalIndexes(cmd.Context(), request.Filter{Statuses: st, Category: category})
			if err != nil {
				return err
			}
			clusters, err := index.Clusters(gx)
			if err != nil {
				return err
			}
			reqs := make([]*request.Request, 0, gx.Tree.Len())
			for _, r := range gx.Tree.All() {
				reqs = append(reqs, r)
			}
			summary := globalSummary{
				Requests: len(reqs),
				Links:    gx.Graph.EdgeCount(),
				Clusters: len(clusters),
			}
			if a.json() {
				return printJSON(cmd.OutOrStdout(), struct {
					globalSummary
					Items []*request.Request `json:"items"`
				}{summary, reqs})
			}
			renderRequests(cmd.OutOrStdout(), reqs)
			writeLine(cmd.OutOrStdout(), "%d requests, %d links, %d clusters", summary.Requests, summary.Links, summary.Clusters)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&statuses, "status", nil, "only these statuses (repeatable or comma-separated)")
	cmd.Flags().StringVar(&category, "category", "", "only this category (case-insensitive)")
	return cmd
}

func topCmd(a *app) *cobra.Command {
	var k int
	cmd := &cobra.Command{
		Use:   "top",
		Short: "Show the most urgent open requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			gx, err := a.builder().BuildGlobalIndexes(cmd.Context(), request.ForStatus(openStatuses...))
			if err != nil {
				return err
			}
			reqs := gx.Queue.TopK(k)
			if a.json() {
				return printJSON(cmd.OutOrStdout(), reqs)
			}
			renderRequests(cmd.OutOrStdout(), reqs)
			return nil
		},
	}
	cmd.Flags().IntVarP(&k, "k", "k", 5, "number of requests")
	return cmd
}

func relatedCmd(a *app) *cobra.Command {
	var publish bool
	cmd := &cobra.Command{
		Use:   "related <request-id>",
		Short: "List open requests related to a request by affinity MST",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.related(cmd, id, publish)
		},
	}
	cmd.Flags().BoolVar(&publish, "publish", false, "publish the relations to NATS")
	return cmd
}

// related prints the relations of id and optionally publishes them.
func (a *app) related(cmd *cobra.Command, id int64, publish bool) error {
	gx, err := a.builder().BuildGlobalIndexes(cmd.Context(), request.Filter{})
	if err != nil {
		return err
	}
	rels := index.Related(gx, id, a.cfg.Related.Limit)

	if publish {
		var code string
		if node, ok := gx.Nodes[id]; ok {
			r, _ := gx.Graph.Value(node)
			code = r.TrackingCode
		}
		if err := a.publishRelations(cmd.Context(), id, code, rels); err != nil {
			return err
		}
	}

	if a.json() {
		return printJSON(cmd.OutOrStdout(), rels)
	}
	if len(rels) == 0 {
		writeLine(cmd.OutOrStdout(), "no related requests for %d", id)
		return nil
	}
	renderRelations(cmd.OutOrStdout(), rels)
	return nil
}

func (a *app) publishRelations(ctx context.Context, id int64, code string, rels []index.Relation) error {
	pub, err := a.publisher()
	if err != nil {
		return err
	}
	defer pub.Close()

	ev := events.RelationsDiscovered{RequestID: id, TrackingCode: code, Relations: make([]events.RelatedRequest, 0, len(rels))}
	for _, rel := range rels {
		ev.Relations = append(ev.Relations, events.RelatedRequest{
			ID:           rel.Request.ID,
			TrackingCode: rel.Request.TrackingCode,
			Title:        rel.Request.Title,
			Weight:       rel.Weight,
			Reason:       rel.Reason,
		})
	}
	if err := pub.Publish(ctx, events.TopicRelationsDiscovered, ev); err != nil {
		return fmt.Errorf("publish relations: %w", err)
	}
	a.log.Info("relations published", "id", id, "count", len(rels))
	return nil
}

func nearbyCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "nearby <request-id>",
		Short: "Rank open requests by shortest affinity distance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			gx, err := a.builder().BuildGlobalIndexes(cmd.Context(), request.Filter{})
			if err != nil {
				return err
			}
			near := index.Nearby(gx, id, limit)
			if a.json() {
				return printJSON(cmd.OutOrStdout(), near)
			}
			renderProximity(cmd.OutOrStdout(), near)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum results (0 = all)")
	return cmd
}

func inferCmd(a *app) *cobra.Command {
	var title, description, category string
	cmd := &cobra.Command{
		Use:         "infer",
		Short:       "Infer priority tier and category from request text",
		Annotations: map[string]string{"source": "none"},
		RunE: func(cmd *cobra.Command, args []string) error {
			res := infer.Infer(title, description, category)
			if a.json() {
				return printJSON(cmd.OutOrStdout(), res)
			}
			renderInference(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "request title")
	cmd.Flags().StringVar(&description, "description", "", "request description")
	cmd.Flags().StringVar(&category, "category", "", "preferred category (skips category inference)")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func addCmd(a *app) *cobra.Command {
	var r request.Request
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a request, inferring priority and category when omitted",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.writable()
			if err != nil {
				return err
			}
			res := infer.New().Apply(&r)
			if err := st.Insert(cmd.Context(), &r); err != nil {
				return err
			}
			a.log.Info("request created", "id", r.ID, "tracking_code", r.TrackingCode, "priority", r.Priority, "score", res.Score)
			if a.json() {
				return printJSON(cmd.OutOrStdout(), r)
			}
			renderRequests(cmd.OutOrStdout(), []*request.Request{&r})
			writeLine(cmd.OutOrStdout(), "inferred: %s", res.Reason)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&r.OwnerID, "owner", "", "owner id")
	f.StringVar(&r.Title, "title", "", "title")
	f.StringVar(&r.Description, "description", "", "description")
	f.StringVar(&r.Category, "category", "", "category (inferred when empty)")
	f.StringVar(&r.Location, "location", "", "location")
	f.IntVar(&r.Priority, "priority", 0, "priority 1-3 (inferred when 0)")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func completeCmd(a *app) *cobra.Command {
	var publish bool
	cmd := &cobra.Command{
		Use:   "complete <request-id>",
		Short: "Mark a request completed and list the related open requests",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			st, err := a.writable()
			if err != nil {
				return err
			}
			if err := st.SetStatus(cmd.Context(), id, request.StatusCompleted); err != nil {
				return err
			}
			a.log.Info("request completed", "id", id)
			return a.related(cmd, id, publish)
		},
	}
	cmd.Flags().BoolVar(&publish, "publish", false, "publish the relations to NATS")
	return cmd
}
