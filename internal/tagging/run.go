package tagging

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"showtag/internal/logging"
	"showtag/internal/scan"
	"showtag/internal/services"
)

// Run discovers recording folders under root and processes each through the
// pipeline with a bounded worker pool. Folder failures land in their Outcome;
// the error return covers discovery only.
func (p *Pipeline) Run(ctx context.Context, root string) ([]Outcome, error) {
	folders, err := scan.Discover(root)
	if err != nil {
		return nil, services.Wrap(services.ErrMetadataImport, "scanning", "discover", root, err)
	}
	if len(folders) == 0 {
		p.logger.InfoContext(ctx, "no recording folders found", logging.String("root", root))
		return nil, nil
	}
	return p.RunFolders(ctx, folders), nil
}

// RunFolders processes an explicit list of recording folders with a bounded
// worker pool. Outcomes align with the input order.
func (p *Pipeline) RunFolders(ctx context.Context, folders []string) []Outcome {
	ctx = services.WithRunID(ctx, services.NewRunID())
	workers := p.cfg.WorkerCount(runtime.NumCPU())
	p.logger.InfoContext(ctx, "tagging run started",
		logging.Int("folders", len(folders)),
		logging.Int("workers", workers))

	outcomes := make([]Outcome, len(folders))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	for i, folder := range folders {
		group.Go(func() error {
			outcomes[i] = p.ProcessFolder(groupCtx, folder)
			return nil
		})
	}
	_ = group.Wait()

	tagged := 0
	for _, outcome := range outcomes {
		if outcome.Status == StatusTagged {
			tagged++
		}
	}
	p.logger.InfoContext(ctx, "tagging run finished",
		logging.Int("tagged", tagged),
		logging.Int("folders", len(folders)))
	return outcomes
}
