package cmd

import (
	"fmt"
	"sort"

	mapset "github.com/deckarep/golang-set"
	"github.com/pyr-sh/dag"
	"github.com/spf13/cobra"

	"github.com/ferrotask/ferrotask/internal/cmdutil"
	"github.com/ferrotask/ferrotask/internal/config"
	"github.com/ferrotask/ferrotask/internal/util"
)

// newGraphCommand returns the "graph" subcommand, which topologically
// orders the workspace's declared project-to-project dependencies.
func newGraphCommand(helper *cmdutil.Helper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Print projects in dependency order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := helper.GetCmdBase(cmd.Flags())
			if err != nil {
				return err
			}

			ws, err := base.LoadWorkspace()
			if err != nil {
				base.LogError("%v", err)
				return err
			}

			graph, err := buildProjectGraph(ws)
			if err != nil {
				base.LogError("%v", err)
				return err
			}

			if err := util.ValidateGraph(graph); err != nil {
				base.LogError("%v", err)
				return err
			}

			order, err := topologicalOrder(graph)
			if err != nil {
				base.LogError("%v", err)
				return err
			}

			for _, id := range order {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
	return cmd
}

// buildProjectGraph constructs a project-id vertex DAG from every
// workspace project's declared DependsOn edges. An edge source -> target
// means target is a dependency of source, and so must come before it in
// the printed order.
func buildProjectGraph(ws *config.Workspace) (*dag.AcyclicGraph, error) {
	var graph dag.AcyclicGraph

	ids := mapset.NewSet()
	for id := range ws.Projects {
		graph.Add(id)
		ids.Add(id)
	}

	for _, proj := range ws.Projects {
		for _, dep := range proj.DependsOn {
			if !ids.Contains(dep) {
				return nil, fmt.Errorf("project %q depends on unknown project %q", proj.ID, dep)
			}
			graph.Connect(dag.BasicEdge(proj.ID, dep))
		}
	}

	return &graph, nil
}

// topologicalOrder depth-first walks the graph from every project with no
// dependents (no UpEdges), visiting each project's dependencies before the
// project itself, yielding a build-safe order.
func topologicalOrder(graph *dag.AcyclicGraph) ([]string, error) {
	vertices := graph.Vertices()
	sort.Slice(vertices, func(i, j int) bool {
		return vertices[i].(string) < vertices[j].(string)
	})

	roots := make(dag.Set)
	for _, v := range vertices {
		if graph.UpEdges(v).Len() == 0 {
			roots.Add(v)
		}
	}

	var order []string
	seen := make(dag.Set)
	var visit func(v dag.Vertex)
	visit = func(v dag.Vertex) {
		if seen.Include(v) {
			return
		}
		seen.Add(v)
		deps := graph.DownEdges(v).List()
		sort.Slice(deps, func(i, j int) bool { return deps[i].(string) < deps[j].(string) })
		for _, d := range deps {
			visit(d)
		}
		order = append(order, v.(string))
	}
	for _, v := range vertices {
		if roots.Include(v) {
			visit(v)
		}
	}

	return order, nil
}
