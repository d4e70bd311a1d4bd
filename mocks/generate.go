package mocks

//go:generate mockgen -destination=./mock_model.go -package=mocks github.com/rxtech-lab/argo-forecast/internal/model Model
//go:generate mockgen -destination=./mock_writer.go -package=mocks github.com/rxtech-lab/argo-forecast/internal/writer PredictionWriter
