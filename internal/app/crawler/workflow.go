package crawler

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

const (
	dataRepo       = "https://github.com/bz-dev/inside-airbnb-data.git"
	dataRepoName   = "bz-dev/inside-airbnb-data"
	dataRepoDir    = "inside-airbnb-data"
	indexDir       = "data/cities"
	weeklySchedule = "0 0 * * 1"

	commitScript = `cd inside-airbnb-data
git lfs track "*.csv" "*.csv.gz" "*.geojson"
git add .
git commit -m "Updated on ${DATE_UPDATED}" || echo "No changes to commit"`
)

type Workflow struct {
	Name string          `yaml:"name"`
	On   WorkflowTrigger `yaml:"on"`
	Jobs yaml.MapSlice   `yaml:"jobs"`
}

type WorkflowTrigger struct {
	WorkflowDispatch struct{}   `yaml:"workflow_dispatch"`
	Schedule         []Schedule `yaml:"schedule"`
}

type Schedule struct {
	Cron string `yaml:"cron"`
}

type Job struct {
	RunsOn string            `yaml:"runs-on"`
	Needs  string            `yaml:"needs,omitempty"`
	Env    map[string]string `yaml:"env,omitempty"`
	Steps  []Step            `yaml:"steps"`
}

type Step struct {
	Name string            `yaml:"name,omitempty"`
	Uses string            `yaml:"uses,omitempty"`
	Run  string            `yaml:"run,omitempty"`
	With map[string]string `yaml:"with,omitempty"`
}

// BuildWorkflow chains one download job per city so that data repo commits
// never race each other.
func BuildWorkflow(cities []string) Workflow {
	wf := Workflow{
		Name: "Download InsideAirbnb Data",
		On:   WorkflowTrigger{Schedule: []Schedule{{Cron: weeklySchedule}}},
	}
	for i, city := range cities {
		job := downloadJob(city)
		if i > 0 {
			job.Needs = jobName(cities[i-1])
		}
		wf.Jobs = append(wf.Jobs, yaml.MapItem{Key: jobName(city), Value: job})
	}
	return wf
}

func WriteWorkflow(path string, wf Workflow) error {
	data, err := yaml.Marshal(wf)
	if err != nil {
		return fmt.Errorf("failed to marshal workflow: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create workflow dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write workflow: %w", err)
	}
	return nil
}

func jobName(city string) string {
	return "download-" + city
}

func downloadJob(city string) Job {
	return Job{
		RunsOn: "ubuntu-latest",
		Env:    map[string]string{"GIT_LFS_SKIP_SMUDGE": "1"},
		Steps: []Step{
			{Uses: "actions/checkout@v4"},
			{Name: "Set up Go", Uses: "actions/setup-go@v5", With: map[string]string{"go-version-file": "go.mod"}},
			{Name: "Install git lfs", Run: "sudo apt-get install git-lfs"},
			{Name: "Clone existing data repo", Run: "git clone " + dataRepo},
			{Name: "Download data", Run: fmt.Sprintf("AIRBNB_DATA_DIR=%s AIRBNB_INDEX_DIR=%s go run ./cmd/crawler download %s", dataRepoDir, indexDir, city)},
			{Name: "Get date", Run: `echo "DATE_UPDATED=$(date --rfc-3339=date)" >> ${GITHUB_ENV}`},
			{Name: "Commit", Run: commitScript},
			{
				Name: "Push changes",
				Uses: "ad-m/github-push-action@master",
				With: map[string]string{
					"directory":    dataRepoDir,
					"github_token": "${{ secrets.PERSONAL_ACCESS_TOKEN }}",
					"repository":   dataRepoName,
					"branch":       "main",
				},
			},
		},
	}
}
