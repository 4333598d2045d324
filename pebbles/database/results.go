package database

import (
	"time"

	"pebbleserver/models"
	"pebbleserver/pebbles/registry"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RecordResult は終了したゲームをGameResultとして保存する
func RecordResult(db *gorm.DB, finished registry.Finished, logger *zap.Logger) error {
	state := finished.State
	winner := ""
	if state.Winner != nil {
		winner = state.Winner.String()
	}
	result := models.GameResult{
		GameID:            finished.GameID,
		PlayerID:          finished.PlayerID,
		Difficulty:        state.Difficulty.String(),
		PebblesCount:      state.PebblesCount,
		MaxPebblesPerTurn: state.MaxPebblesPerTurn,
		FirstPlayer:       state.FirstPlayer.String(),
		Winner:            winner,
		GaveUp:            finished.GaveUp,
		Turns:             finished.Turns,
	}
	if err := db.Create(&result).Error; err != nil {
		logger.Error("Failed to record game result", zap.String("gameID", finished.GameID), zap.Error(err))
		return err
	}
	logger.Info("Game result recorded", zap.String("gameID", finished.GameID), zap.String("winner", winner))
	return nil
}

// ListResults はプレイヤーの対戦結果を新しい順に返す
func ListResults(db *gorm.DB, playerID string, limit int) ([]models.GameResult, error) {
	var results []models.GameResult
	err := db.Where("player_id = ?", playerID).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error
	return results, err
}

// DeleteResultsBefore はcutoffより古い対戦結果を物理削除し、削除件数を返す
func DeleteResultsBefore(db *gorm.DB, cutoff time.Time) (int64, error) {
	// gorm.Modelの論理削除ではテーブルが小さくならない
	result := db.Unscoped().Where("created_at <= ?", cutoff).Delete(&models.GameResult{})
	return result.RowsAffected, result.Error
}
